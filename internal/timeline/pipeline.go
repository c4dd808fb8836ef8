package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/samber/lo"
)

// TabCount is the fixed number of month tabs a timeline exposes.
const TabCount = 12

type Perspective struct {
	Kind domain.EntityType
	ID   uuid.UUID
}

func FilterByPerspective(ops []domain.Opportunity, p Perspective) []domain.Opportunity {
	return lo.Filter(ops, func(o domain.Opportunity, _ int) bool {
		switch p.Kind {
		case domain.EntityArtist:
			return o.ArtistID == p.ID
		case domain.EntityVenue:
			return o.VenueID == p.ID
		}
		return false
	})
}

// Predicates narrow a timeline. Zero values disable each check, except that
// expired opportunities are dropped unless IncludeExpired is set.
type Predicates struct {
	Statuses       []domain.OpportunityStatus
	From           domain.Date
	To             domain.Date
	IncludeExpired bool
	// Today, when set, also drops dates that have already passed unless
	// IncludeExpired is true.
	Today domain.Date
}

func (p Predicates) Match(o domain.Opportunity) bool {
	if len(p.Statuses) > 0 && !lo.Contains(p.Statuses, o.Status) {
		return false
	}
	if !p.From.IsZero() && o.ProposedDate.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && o.ProposedDate.After(p.To) {
		return false
	}
	if !p.IncludeExpired {
		if o.Status == domain.StatusExpired {
			return false
		}
		if !p.Today.IsZero() && o.ProposedDate.Before(p.Today) {
			return false
		}
	}
	return true
}

func Filter(ops []domain.Opportunity, p Predicates) []domain.Opportunity {
	return lo.Filter(ops, func(o domain.Opportunity, _ int) bool { return p.Match(o) })
}

// Entries maps opportunities to timeline entries sorted by date. Entries on
// the same date keep a deterministic order by id.
func Entries(ops []domain.Opportunity) []Entry {
	entries := lo.Map(ops, func(o domain.Opportunity, _ int) Entry { return EntryFor(o) })
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ID().String() < entries[j].ID().String()
	})
	return entries
}

type MonthGroup struct {
	Key     string  `json:"key"`
	Entries []Entry `json:"entries"`
	// Count is the number of distinct dates in the month, not the number of
	// entries: three offers for the same night count once.
	Count int `json:"count"`
}

func (g MonthGroup) HasStatus(s domain.OpportunityStatus) bool {
	return lo.ContainsBy(g.Entries, func(e Entry) bool { return e.Status == s })
}

// GroupByMonth buckets entries by "YYYY-MM". Groups come back in ascending
// key order; entries keep their input order within a group.
func GroupByMonth(entries []Entry) []MonthGroup {
	byKey := lo.GroupBy(entries, func(e Entry) string { return e.Date.MonthKey() })
	keys := lo.Keys(byKey)
	sort.Strings(keys)

	groups := make([]MonthGroup, 0, len(keys))
	for _, k := range keys {
		es := byKey[k]
		dates := lo.UniqBy(es, func(e Entry) string { return e.Date.String() })
		groups = append(groups, MonthGroup{Key: k, Entries: es, Count: len(dates)})
	}
	return groups
}

type MonthTab struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Count        int    `json:"count"`
	HasConfirmed bool   `json:"hasConfirmed"`
}

// StableMonthTabs always returns TabCount consecutive months starting at the
// month of now, filled in from groups where data exists. The tab bar keeps its
// shape while data loads.
func StableMonthTabs(now time.Time, groups []MonthGroup) []MonthTab {
	byKey := lo.KeyBy(groups, func(g MonthGroup) string { return g.Key })
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	tabs := make([]MonthTab, 0, TabCount)
	for i := 0; i < TabCount; i++ {
		m := first.AddDate(0, i, 0)
		tab := MonthTab{Key: m.Format("2006-01"), Label: m.Format("Jan 2006")}
		if g, ok := byKey[tab.Key]; ok {
			tab.Count = g.Count
			tab.HasConfirmed = g.HasStatus(domain.StatusConfirmed)
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

// DefaultActiveMonth picks the tab a timeline opens on: the earliest month
// holding a confirmed show, otherwise the earliest month with any entry,
// otherwise the current month. groups must be in ascending key order.
func DefaultActiveMonth(groups []MonthGroup, now time.Time) string {
	if g, ok := lo.Find(groups, func(g MonthGroup) bool { return g.HasStatus(domain.StatusConfirmed) }); ok {
		return g.Key
	}
	if g, ok := lo.Find(groups, func(g MonthGroup) bool { return len(g.Entries) > 0 }); ok {
		return g.Key
	}
	return now.Format("2006-01")
}

type Options struct {
	Perspective *Perspective
	Predicates  Predicates
	Now         time.Time
}

type View struct {
	Tabs        []MonthTab   `json:"tabs"`
	Groups      []MonthGroup `json:"groups"`
	ActiveMonth string       `json:"activeMonth"`
	Stats       Stats        `json:"stats"`
}

// Build runs the whole pipeline: perspective, predicates, entries, month
// groups, stable tabs and the default tab. The default tab is always one of
// the tabs. Stats cover the filtered set.
func Build(ops []domain.Opportunity, opts Options) View {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.Perspective != nil {
		ops = FilterByPerspective(ops, *opts.Perspective)
	}
	ops = Filter(ops, opts.Predicates)

	groups := GroupByMonth(Entries(ops))
	tabs := StableMonthTabs(now, groups)
	tabKeys := lo.SliceToMap(tabs, func(t MonthTab) (string, struct{}) { return t.Key, struct{}{} })
	onTabs := lo.Filter(groups, func(g MonthGroup, _ int) bool {
		_, ok := tabKeys[g.Key]
		return ok
	})
	return View{
		Tabs:        tabs,
		Groups:      groups,
		ActiveMonth: DefaultActiveMonth(onTabs, now),
		Stats:       ComputeStats(ops),
	}
}
