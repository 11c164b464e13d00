package candidate

import (
	"context"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/fee"
	"github.com/trezcool/gce/core/settings"
)

var (
	// errors
	ErrNotFound        = errors.New("candidate not found")
	ErrMalformedImport = errors.New("invalid import file: expected a JSON array of candidate records")
)

// SettingsSource provides the fee schedule in force.
type SettingsSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	store     core.Store
	settings  SettingsSource
	catalogue *fee.Catalogue
	auditor   core.Auditor
	validate  *validator.Validate
	mutex     sync.Mutex
}

func NewService(
	store core.Store,
	settingsSrc SettingsSource,
	catalogue *fee.Catalogue,
	auditor core.Auditor,
	validate *validator.Validate,
) *Service {
	if catalogue == nil {
		catalogue = fee.DefaultCatalogue
	}
	return &Service{
		store:     store,
		settings:  settingsSrc,
		catalogue: catalogue,
		auditor:   auditor,
		validate:  validate,
	}
}

func (svc *Service) Catalogue() *fee.Catalogue { return svc.catalogue }

func (svc *Service) load(ctx context.Context) ([]Candidate, error) {
	var records []Candidate
	if _, err := core.LoadJSON(ctx, svc.store, core.KeyRecords, &records); err != nil {
		return nil, errors.Wrap(err, "loading records")
	}
	return records, nil
}

func (svc *Service) save(ctx context.Context, records []Candidate) error {
	if records == nil {
		records = []Candidate{}
	}
	return core.SaveJSON(ctx, svc.store, core.KeyRecords, records)
}

func indexOf(records []Candidate, id int64) int {
	if id == 0 {
		return -1
	}
	for i, c := range records {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the clock, bumped until no record holds it.
func nextID(records []Candidate) int64 {
	id := core.NowFunc().UnixMilli()
	for indexOf(records, id) >= 0 {
		id++
	}
	return id
}

// prepare recomputes the derived fields of c against sched.
// An existing record keeps its identity, meta and query flag.
func (svc *Service) prepare(records []Candidate, c Candidate, sched fee.Schedule, actor string) (Candidate, int) {
	idx := indexOf(records, c.ID)
	if idx >= 0 {
		prev := records[idx]
		c.ID = prev.ID
		c.RegDate = prev.RegDate
		c.Timestamp = prev.Timestamp
		c.CreatedBy = prev.CreatedBy
		c.Query = c.Query || prev.Query
	} else {
		if c.ID <= 0 {
			c.ID = nextID(records)
		}
		if c.RegDate == "" {
			c.RegDate = core.Today()
		}
		if c.Timestamp == 0 {
			c.Timestamp = core.NowFunc().UnixMilli()
		}
		if c.CreatedBy == "" {
			c.CreatedBy = actor
		}
	}
	if c.Subjects == nil {
		c.Subjects = []string{}
	}

	bill := fee.Calculate(c.Subjects, sched, svc.catalogue)
	c.FeeSchool = bill.TotalSchool
	c.FeeEcz = bill.TotalExam
	c.PaymentStatus = resolveStatus(c, bill)
	return c, idx
}

func resolveStatus(c Candidate, bill fee.Breakdown) fee.Status {
	if c.Query {
		return fee.StatusQuery
	}
	return fee.ResolveStatus(c.Payment(), bill)
}

func upsert(records []Candidate, c Candidate, idx int) []Candidate {
	if idx >= 0 {
		records[idx] = c
		return records
	}
	return append(records, c)
}

func saveMessage(c Candidate, created bool) string {
	if created {
		return "Created record for " + c.FullName()
	}
	return "Updated record for " + c.FullName()
}

func (svc *Service) schedule(ctx context.Context) (fee.Schedule, error) {
	s, err := svc.settings.Get(ctx)
	if err != nil {
		return fee.Schedule{}, err
	}
	return s.Schedule(), nil
}

// Save creates the registration, or replaces the record holding reg.ID.
// Fees and status are recomputed from the current settings before anything is written.
func (svc *Service) Save(ctx context.Context, reg Registration, actor string) (Candidate, error) {
	if err := reg.Validate(svc.validate); err != nil {
		return Candidate{}, err
	}
	sched, err := svc.schedule(ctx)
	if err != nil {
		return Candidate{}, err
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return Candidate{}, err
	}
	c, idx := svc.prepare(records, reg.candidate(), sched, actor)
	if err = svc.save(ctx, upsert(records, c, idx)); err != nil {
		return Candidate{}, err
	}
	svc.auditor.Log(ctx, saveMessage(c, idx < 0))
	return c, nil
}

// Delete removes the record holding id. Unknown ids are ignored.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return nil
	}
	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	if err = svc.save(ctx, records); err != nil {
		return err
	}
	svc.auditor.Log(ctx, "Deleted record for "+removed.Surname)
	return nil
}

// SetQuery raises or clears the administrative Query flag of a record.
func (svc *Service) SetQuery(ctx context.Context, id int64, flagged bool) (Candidate, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return Candidate{}, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return Candidate{}, ErrNotFound
	}
	c := records[idx]
	c.Query = flagged
	c.PaymentStatus = resolveStatus(c, c.Bill(0))
	records[idx] = c
	if err = svc.save(ctx, records); err != nil {
		return Candidate{}, err
	}

	if flagged {
		svc.auditor.Log(ctx, "Flagged record for "+c.FullName()+" as Query")
	} else {
		svc.auditor.Log(ctx, "Cleared query on record for "+c.FullName())
	}
	return c, nil
}

// List returns every record, newest first.
func (svc *Service) List(ctx context.Context) ([]Candidate, error) {
	svc.mutex.Lock()
	records, err := svc.load(ctx)
	svc.mutex.Unlock()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Candidate{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Candidate, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return Candidate{}, err
	}
	idx := indexOf(records, id)
	if idx < 0 {
		return Candidate{}, ErrNotFound
	}
	return records[idx], nil
}

// Filter is List narrowed by filter.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Candidate, error) {
	records, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	filter.Clean()
	filtered := make([]Candidate, 0, len(records))
	for _, c := range records {
		if filter.matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Quote bills a subject selection under the current settings without saving anything.
func (svc *Service) Quote(ctx context.Context, subjects []string) (fee.Breakdown, error) {
	sched, err := svc.schedule(ctx)
	if err != nil {
		return fee.Breakdown{}, err
	}
	return fee.Calculate(cleanSubjects(subjects), sched, svc.catalogue), nil
}
