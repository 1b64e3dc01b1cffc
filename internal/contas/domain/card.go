package domain

type Card struct {
	ID     int64
	UserID int64

	BankName string
	// Label is the user-chosen identification name. The schema keeps it
	// globally unique, matching the observed behaviour of the system this
	// replaces, even though per-owner uniqueness was probably intended.
	Label            string
	TotalLimit       float64
	StatementBalance float64
	Status           int // StatusActive or StatusInactive (soft deleted)
}
