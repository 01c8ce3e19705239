package api

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type onboardingInput struct {
	LastPeriodStart string `json:"last_period_start"`
	PeriodLength    int    `json:"period_length"`
}

type symptomSelectionInput struct {
	Symptoms []string `json:"symptoms"`
}

type periodUpdateInput struct {
	Flow    *string `json:"flow"`
	EndDate *string `json:"end_date"`
}
