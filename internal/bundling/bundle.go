// Package bundling groups resolved contacts into message-creation units.
// Bundling is pure and deterministic: no I/O, no clock reads, no map
// iteration order leaking into results. It runs inline in workflow code,
// so determinism here is a replay-correctness requirement, not a style
// preference.
package bundling

import "github.com/ahrav/go-notify/internal/domain"

// KeyFunc extracts the grouping key from a resolved contact. An empty return
// value means the contact does not participate in grouping and forms a
// singleton unit of its own.
type KeyFunc func(domain.ResolvedContact) string

// ByEmail groups contacts sharing an email endpoint so one message covers all
// of them. Contacts without an email become singletons.
//
// TODO: production bundling would also group by phone for SMS/voice channels
// and honor per-contact channel preferences; email-only is the current
// documented behavior.
func ByEmail(c domain.ResolvedContact) string {
	if !c.HasEmail() {
		return ""
	}
	return c.Email
}

// Unit is one message-creation unit: a group key and the contact chosen to
// drive the dispatch payload. Units exist only for the duration of one
// orchestration run.
type Unit struct {
	// Key is the shared endpoint the group was formed on, or the contact's
	// own identity for singleton units.
	Key string

	// Representative is the contact whose identity the dispatch uses.
	// Always the first member of the group in input order.
	Representative domain.ResolvedContact

	// Size is the number of contacts the unit covers.
	Size int
}

// Bundle partitions resolved contacts into units by the value keyFn returns.
// Contacts with equal non-empty keys share one unit; contacts with an empty
// key are each their own unit, keyed by their contact identity so empty keys
// never merge. The representative of every unit is its first member in input
// order, and units are emitted in first-appearance order. Both rules keep the
// output stable across replays of the same input.
func Bundle(resolved []domain.ResolvedContact, keyFn KeyFunc) []Unit {
	units := make([]Unit, 0, len(resolved))
	byKey := make(map[string]int, len(resolved))

	for _, c := range resolved {
		key := keyFn(c)
		if key == "" {
			// Singleton: key on identity, never on the empty string.
			units = append(units, Unit{Key: "contact:" + c.ID, Representative: c, Size: 1})
			continue
		}
		if i, ok := byKey[key]; ok {
			units[i].Size++
			continue
		}
		byKey[key] = len(units)
		units = append(units, Unit{Key: key, Representative: c, Size: 1})
	}

	return units
}
