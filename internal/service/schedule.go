package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/recurrence"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/utils"
)

// Schedule manages schedule items and recurring templates. Mutating a
// derived instance stores it as an exception under its instance id;
// deleting one excludes its date on the template.
type Schedule struct {
	env Env
	key *store.Key[[]models.ScheduleItem]
	mu  sync.Mutex
}

// ItemPatch holds the optional fields of an edit.
type ItemPatch struct {
	Text       *string
	Time       *string
	Notes      *string
	Difficulty *constants.Difficulty
}

func NewSchedule(env Env) *Schedule {
	return &Schedule{
		env: env,
		key: store.Open(env.Store, constants.KeySchedule, []models.ScheduleItem{}),
	}
}

// All returns every stored item, templates included.
func (s *Schedule) All() []models.ScheduleItem {
	return s.key.Get()
}

func (s *Schedule) Subscribe(fn func([]models.ScheduleItem)) func() {
	return s.key.Subscribe(fn)
}

// Add stores a new item or template. An empty date means today.
func (s *Schedule) Add(item models.ScheduleItem) (models.ScheduleItem, error) {
	item.ID = uuid.New().String()
	item.TemplateID = ""
	item.ExcludedDates = nil
	if item.Date == "" {
		item.Date = utils.DateString(s.env.now())
	}
	if len(item.RecurrenceDays) > 0 {
		item.RecurrenceDays = normalizeWeekdays(item.RecurrenceDays)
	}
	if err := item.Validate(); err != nil {
		return models.ScheduleItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Update(func(list []models.ScheduleItem) []models.ScheduleItem {
		return append(list, item)
	})
	return item, nil
}

// Import appends already-validated items, assigning fresh ids.
func (s *Schedule) Import(items []models.ScheduleItem) (int, error) {
	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].TemplateID = ""
		if err := items[i].Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Update(func(list []models.ScheduleItem) []models.ScheduleItem {
		return append(list, items...)
	})
	return len(items), nil
}

// Day returns the items shown on date, derived instances included.
func (s *Schedule) Day(date time.Time) []models.ScheduleItem {
	return recurrence.ItemsForDate(s.key.Get(), utils.Midnight(date.In(s.env.location())))
}

// Range returns the items between from and to inclusive, ordered by date.
func (s *Schedule) Range(from, to time.Time) []models.ScheduleItem {
	return recurrence.ExpandRange(s.key.Get(), from, to)
}

// resolve finds id among stored items, or as a derived instance whose date
// is encoded in the id. The index is -1 for derived instances.
func (s *Schedule) resolve(list []models.ScheduleItem, id string) (models.ScheduleItem, int, error) {
	for i, it := range list {
		if it.ID == id {
			return it, i, nil
		}
	}
	if _, date, ok := recurrence.ParseInstanceID(id, s.env.location()); ok {
		if it, derived, found := recurrence.Find(list, id, date); found && derived {
			return it, -1, nil
		}
	}
	return models.ScheduleItem{}, -1, apperrors.NotFound("schedule item", id)
}

// edit applies fn to a stored item or to a derived instance, which is then
// stored as an exception.
func (s *Schedule) edit(id string, fn func(*models.ScheduleItem) error) (models.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	it, idx, err := s.resolve(list, id)
	if err != nil {
		return models.ScheduleItem{}, err
	}
	if err := fn(&it); err != nil {
		return models.ScheduleItem{}, err
	}
	if err := it.Validate(); err != nil {
		return models.ScheduleItem{}, err
	}
	if idx < 0 {
		logger.Debug("Materializing schedule instance", "id", it.ID, "template", it.TemplateID)
		list = append(list, it)
	} else {
		list[idx] = it
	}
	s.key.Set(list)
	return it, nil
}

// ToggleComplete flips completion of a concrete item or instance.
func (s *Schedule) ToggleComplete(id string) (models.ScheduleItem, error) {
	it, err := s.edit(id, func(it *models.ScheduleItem) error {
		if it.IsTemplate() {
			return apperrors.Invalid("recurring template %s has no completion state; complete one of its instances", id)
		}
		it.Completed = !it.Completed
		return nil
	})
	if err != nil {
		return it, err
	}
	if it.Completed {
		s.env.record(constants.StatTasksCompleted, s.env.now())
	}
	return it, nil
}

// Edit changes text, time, notes or difficulty. Editing a template changes
// every future derived instance; editing an instance stores an exception.
func (s *Schedule) Edit(id string, p ItemPatch) (models.ScheduleItem, error) {
	return s.edit(id, func(it *models.ScheduleItem) error {
		if p.Text != nil {
			it.Text = *p.Text
		}
		if p.Time != nil {
			it.Time = *p.Time
		}
		if p.Notes != nil {
			it.Notes = *p.Notes
		}
		if p.Difficulty != nil {
			it.Difficulty = *p.Difficulty
		}
		return nil
	})
}

// Delete removes an item. Deleting a template also deletes its stored
// exceptions; deleting an instance excludes its date on the template.
func (s *Schedule) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	it, idx, err := s.resolve(list, id)
	if err != nil {
		return err
	}

	out := make([]models.ScheduleItem, 0, len(list))
	switch {
	case it.IsTemplate():
		for _, x := range list {
			if x.ID != it.ID && x.TemplateID != it.ID {
				out = append(out, x)
			}
		}
	case it.TemplateID != "":
		for i, x := range list {
			if i == idx {
				continue
			}
			if x.ID == it.TemplateID && !x.IsExcluded(it.Date) {
				x.ExcludedDates = append(append([]string(nil), x.ExcludedDates...), it.Date)
			}
			out = append(out, x)
		}
	default:
		out = append(out, list[:idx]...)
		out = append(out, list[idx+1:]...)
	}
	s.key.Set(out)
	return nil
}

// Detach turns an instance into a standalone item with its own id. The
// template no longer produces that date.
func (s *Schedule) Detach(id string) (models.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	it, idx, err := s.resolve(list, id)
	if err != nil {
		return models.ScheduleItem{}, err
	}
	if it.TemplateID == "" {
		return models.ScheduleItem{}, apperrors.Invalid("schedule item %s is not an instance of a recurring template", id)
	}

	templateID := it.TemplateID
	detached := it
	detached.ID = uuid.New().String()
	detached.TemplateID = ""

	out := make([]models.ScheduleItem, 0, len(list)+1)
	for i, x := range list {
		if i == idx {
			continue
		}
		if x.ID == templateID && !x.IsExcluded(it.Date) {
			x.ExcludedDates = append(append([]string(nil), x.ExcludedDates...), it.Date)
		}
		out = append(out, x)
	}
	out = append(out, detached)
	s.key.Set(out)
	return detached, nil
}

// Templates returns the stored recurring templates.
func (s *Schedule) Templates() []models.ScheduleItem {
	var out []models.ScheduleItem
	for _, it := range s.key.Get() {
		if it.IsTemplate() {
			out = append(out, it)
		}
	}
	return out
}

func normalizeWeekdays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
