package domain

// PendingRegistration is the candidate user payload parked in the
// verification ledger between send-code and verify-register. It only becomes
// a User row once the emailed code is confirmed.
type PendingRegistration struct {
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Password  string `json:"senha"`
	BirthDate string `json:"dt_nascimento,omitempty"`
	CPF       string `json:"cpf,omitempty"`
}

// PendingEmailChange is the counterpart payload for the email-change
// workflow, keyed by the acting user's id.
type PendingEmailChange struct {
	NewEmail string `json:"new_email"`
}
