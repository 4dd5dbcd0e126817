// Package series derives grouped views over flat reservation lists.  A
// series is not persisted anywhere; it is re-derived on every read by
// collecting reservations that share a series identifier.  The package is
// pure presentation logic: it never touches the database.
package series

import (
	"sort"
	"time"

	"github.com/edulabs/lab-room-booking/internal/model"
)

// Entry is one reservation as seen by the grouping logic.  Handlers map
// repository rows into entries before grouping.
type Entry struct {
	ID           uint64    `json:"id"`
	SeriesID     *string   `json:"series_id,omitempty"`
	Status       string    `json:"status"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	RoomID       uint64    `json:"room_id"`
	RoomName     string    `json:"room_name"`
	SubjectLabel string    `json:"subject_label"`
	Shift        string    `json:"shift"`
}

// Group is the derived view of all reservations sharing one series id,
// sorted ascending by date.  PrimaryStatus is CONFIRMED when any member on
// or after today is confirmed, PENDING otherwise.  IsHistory holds when
// every member's date has already passed.
type Group struct {
	SeriesID      string    `json:"series_id"`
	Members       []Entry   `json:"members"`
	PrimaryStatus string    `json:"primary_status"`
	IsHistory     bool      `json:"is_history"`
	FirstDay      time.Time `json:"first_day"`
	LastDay       time.Time `json:"last_day"`
}

// Item is one element of the unified listing: either a single reservation
// or a whole group, never both.
type Item struct {
	Single *Entry `json:"single,omitempty"`
	Group  *Group `json:"group,omitempty"`
}

// Build partitions entries into singles and series groups and returns the
// unified listing in presentation order:
//
//  1. active items before historical ones,
//  2. single reservations before groups,
//  3. confirmed before pending within the same bucket,
//  4. chronological: ascending for active items, most recent first for
//     historical ones.
//
// now anchors the history cutoff; only its UTC calendar day matters.
func Build(entries []Entry, now time.Time) []Item {
	today := midnightUTC(now)

	singles := make([]Entry, 0, len(entries))
	groups := make(map[string][]Entry)
	for _, e := range entries {
		if e.SeriesID == nil || *e.SeriesID == "" {
			singles = append(singles, e)
			continue
		}
		groups[*e.SeriesID] = append(groups[*e.SeriesID], e)
	}

	items := make([]Item, 0, len(singles)+len(groups))
	for i := range singles {
		items = append(items, Item{Single: &singles[i]})
	}
	for id, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			return members[i].StartsAt.Before(members[j].StartsAt)
		})
		g := &Group{
			SeriesID:      id,
			Members:       members,
			PrimaryStatus: primaryStatus(members, today),
			IsHistory:     isHistory(members, today),
			FirstDay:      midnightUTC(members[0].StartsAt),
			LastDay:       midnightUTC(members[len(members)-1].StartsAt),
		}
		items = append(items, Item{Group: g})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		ah, bh := itemHistory(a, today), itemHistory(b, today)
		if ah != bh {
			return !ah // active first
		}
		ag, bg := a.Group != nil, b.Group != nil
		if ag != bg {
			return !ag // singles first
		}
		ar, br := statusRank(itemStatus(a)), statusRank(itemStatus(b))
		if ar != br {
			return ar < br
		}
		ad, bd := itemDate(a, ah), itemDate(b, bh)
		if ah {
			return ad.After(bd) // history: most recent first
		}
		return ad.Before(bd)
	})
	return items
}

// primaryStatus reports CONFIRMED when any member on or after today is
// confirmed; a fully-pending (or fully-past) series reads as PENDING.
func primaryStatus(members []Entry, today time.Time) string {
	for _, m := range members {
		if midnightUTC(m.StartsAt).Before(today) {
			continue
		}
		if m.Status == model.StatusConfirmed {
			return model.StatusConfirmed
		}
	}
	return model.StatusPending
}

func isHistory(members []Entry, today time.Time) bool {
	for _, m := range members {
		if !midnightUTC(m.StartsAt).Before(today) {
			return false
		}
	}
	return true
}

func itemHistory(it Item, today time.Time) bool {
	if it.Group != nil {
		return it.Group.IsHistory
	}
	return midnightUTC(it.Single.StartsAt).Before(today)
}

func itemStatus(it Item) string {
	if it.Group != nil {
		return it.Group.PrimaryStatus
	}
	return it.Single.Status
}

// itemDate picks the representative date used for chronological ordering:
// a single's own day, a group's first day while active and last day once
// historical (so finished series sort by when they ended).
func itemDate(it Item, history bool) time.Time {
	if it.Group == nil {
		return midnightUTC(it.Single.StartsAt)
	}
	if history {
		return it.Group.LastDay
	}
	return it.Group.FirstDay
}

func statusRank(status string) int {
	switch status {
	case model.StatusConfirmed:
		return 0
	case model.StatusPending:
		return 1
	default: // concluded rows sink below live ones in the same bucket
		return 2
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
