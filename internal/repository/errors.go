package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors surfaced when a store-level constraint rejects a write.
// Services translate these into the domain error taxonomy.
var (
	// ErrDoorsHaveParticipation is returned by the door changeset guard when
	// a door slated for deletion is still referenced by entries or winners.
	ErrDoorsHaveParticipation = errors.New("doors still referenced by entries or winners")

	// ErrDuplicateEntry is returned when the (lead_id, door_id) uniqueness
	// constraint rejects an entry insert.
	ErrDuplicateEntry = errors.New("entry already exists for lead and door")

	// ErrWinnerExists is returned when the winners door_id uniqueness
	// constraint rejects a winner insert.
	ErrWinnerExists = errors.New("winner already exists for door")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
