package models

// IntegrityReport is the result of checking the ticket pool against the
// contiguity and conservation invariants.
type IntegrityReport struct {
	Valid         bool     `json:"valid"`
	Issues        []string `json:"issues,omitempty"`
	ExpectedTotal int      `json:"expectedTotal"`
	ActualTotal   int      `json:"actualTotal"`
}

// AllocationResult reports the outcome of assigning tickets to one entry.
type AllocationResult struct {
	EntryID       string `json:"entryId"`
	TicketsMinted int    `json:"ticketsMinted"`
	StartNumber   int    `json:"startNumber"`
	EndNumber     int    `json:"endNumber"`
	AlreadyExists bool   `json:"alreadyExists"`
}

// RebuildResult reports the outcome of a full ticket pool rebuild.
type RebuildResult struct {
	TicketsDeleted int `json:"ticketsDeleted"`
	TicketsCreated int `json:"ticketsCreated"`
	FirstNumber    int `json:"firstNumber"`
	LastNumber     int `json:"lastNumber"`
}
