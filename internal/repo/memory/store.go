package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/model"
)

// Store bundles every in-memory repository over shared state.
type Store struct {
	AdRequests *AdRequestRepo
	Sellers    *SellerRepo
	Pets       *PetRepo
	Reports    *ReportRepo
	Catalog    *CatalogRepo
	Buyers     *BuyerProfileRepo
	Ads        *AdRepo
	Users      *UserRepo
	Activity   *ActivityRepo
	Stats      *StatsRepo
}

func NewStore() *Store {
	s := &Store{
		AdRequests: &AdRequestRepo{t: newTable(
			func(e model.AdRequest) int64 { return e.ID },
			func(e model.AdRequest) enums.ModerationStatus { return e.Status },
			func(e model.AdRequest) time.Time { return e.CreatedAt },
			func(e model.AdRequest, q string) bool { return contains(e.BrandName, q) || contains(e.ContactEmail, q) },
		)},
		Sellers: &SellerRepo{t: newTable(
			func(e model.Seller) int64 { return e.ID },
			func(e model.Seller) enums.ModerationStatus { return e.Status },
			func(e model.Seller) time.Time { return e.CreatedAt },
			func(e model.Seller, q string) bool { return contains(e.BusinessName, q) || contains(e.City, q) },
		)},
		Pets: &PetRepo{t: newTable(
			func(e model.Pet) int64 { return e.ID },
			func(e model.Pet) enums.ModerationStatus { return e.Status },
			func(e model.Pet) time.Time { return e.CreatedAt },
			func(e model.Pet, q string) bool { return contains(e.Name, q) },
		)},
		Reports: &ReportRepo{t: newTable(
			func(e model.Report) int64 { return e.ID },
			func(e model.Report) enums.ModerationStatus { return e.Status },
			func(e model.Report) time.Time { return e.CreatedAt },
			func(e model.Report, q string) bool { return contains(string(e.Reason), q) || contains(e.Details, q) },
		)},
		Catalog:  &CatalogRepo{species: map[int64]model.Species{}, breeds: map[int64]model.Breed{}},
		Buyers:   &BuyerProfileRepo{profiles: map[int64]model.BuyerProfile{}},
		Ads:      &AdRepo{rows: map[int64]model.AdListing{}},
		Users:    &UserRepo{byID: map[int64]model.User{}},
		Activity: &ActivityRepo{},
	}
	s.Catalog.pets = s.Pets
	s.Stats = &StatsRepo{store: s}
	return s
}

type AdRequestRepo struct {
	t *table[model.AdRequest]
}

func (r *AdRequestRepo) Create(_ context.Context, req model.AdRequest) (model.AdRequest, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	req.ID = r.t.nextID()
	req.Status = enums.ModerationStatusPending
	req.UpdatedAt = req.CreatedAt
	r.t.rows[req.ID] = req
	return req, nil
}

func (r *AdRequestRepo) List(_ context.Context, f model.ListFilter) ([]model.AdRequest, int, error) {
	items, total := r.t.list(f, nil)
	return items, total, nil
}

func (r *AdRequestRepo) Get(_ context.Context, id int64) (model.AdRequest, error) {
	return r.t.get(id)
}

func (r *AdRequestRepo) Transition(_ context.Context, id int64, t model.Transition) (model.AdRequest, error) {
	return r.t.transition(id, func(e *model.AdRequest) {
		e.Status = t.To
		e.RejectionReason = t.Reason
		e.DecidedBy, e.DecidedAt = decided(t)
		e.UpdatedAt = t.At
	})
}

func (r *AdRequestRepo) ListRejectedWithImages(_ context.Context, cutoff time.Time, afterID int64, limit int) ([]model.AdRequest, error) {
	items, _ := r.t.list(model.ListFilter{Status: enums.ModerationStatusRejected}, func(e model.AdRequest) bool {
		return e.ID > afterID && e.ImageKey != "" && e.DecidedAt != nil && e.DecidedAt.Before(cutoff)
	})
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *AdRequestRepo) ClearImage(_ context.Context, id int64) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	row, ok := r.t.rows[id]
	if !ok {
		return model.ErrNotFound
	}
	row.ImageKey = ""
	r.t.rows[id] = row
	return nil
}

type SellerRepo struct {
	t *table[model.Seller]
}

func (r *SellerRepo) Create(_ context.Context, s model.Seller) (model.Seller, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	for _, existing := range r.t.rows {
		if existing.UserID == s.UserID {
			return model.Seller{}, model.ErrDuplicate
		}
	}
	s.ID = r.t.nextID()
	s.Status = enums.ModerationStatusPending
	s.UpdatedAt = s.CreatedAt
	r.t.rows[s.ID] = s
	return s, nil
}

func (r *SellerRepo) List(_ context.Context, f model.ListFilter) ([]model.Seller, int, error) {
	items, total := r.t.list(f, nil)
	return items, total, nil
}

func (r *SellerRepo) Get(_ context.Context, id int64) (model.Seller, error) {
	return r.t.get(id)
}

func (r *SellerRepo) GetByUserID(_ context.Context, userID int64) (model.Seller, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	for _, s := range r.t.rows {
		if s.UserID == userID {
			return s, nil
		}
	}
	return model.Seller{}, model.ErrNotFound
}

func (r *SellerRepo) Transition(_ context.Context, id int64, t model.Transition) (model.Seller, error) {
	return r.t.transition(id, func(e *model.Seller) {
		e.Status = t.To
		e.Notes = t.Notes
		e.DecidedBy, e.DecidedAt = decided(t)
		e.UpdatedAt = t.At
	})
}

type PetRepo struct {
	t *table[model.Pet]
}

func (r *PetRepo) Create(_ context.Context, p model.Pet) (model.Pet, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	p.ID = r.t.nextID()
	p.Status = enums.ModerationStatusPending
	p.UpdatedAt = p.CreatedAt
	p.ImageKeys = append([]string(nil), p.ImageKeys...)
	r.t.rows[p.ID] = p
	return p, nil
}

func (r *PetRepo) List(_ context.Context, f model.ListFilter) ([]model.Pet, int, error) {
	items, total := r.t.list(f, nil)
	return items, total, nil
}

func (r *PetRepo) ListBySeller(_ context.Context, sellerID int64, f model.ListFilter) ([]model.Pet, int, error) {
	items, total := r.t.list(f, func(p model.Pet) bool { return p.SellerID == sellerID })
	return items, total, nil
}

func (r *PetRepo) Get(_ context.Context, id int64) (model.Pet, error) {
	return r.t.get(id)
}

func (r *PetRepo) Transition(_ context.Context, id int64, t model.Transition) (model.Pet, error) {
	return r.t.transition(id, func(e *model.Pet) {
		e.Status = t.To
		e.VerifiedBy, e.VerifiedAt = decided(t)
		e.UpdatedAt = t.At
	})
}

func (r *PetRepo) usesSpecies(speciesID int64) bool {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	for _, p := range r.t.rows {
		if p.SpeciesID == speciesID {
			return true
		}
	}
	return false
}

type ReportRepo struct {
	t *table[model.Report]
}

func (r *ReportRepo) Create(_ context.Context, rep model.Report) (model.Report, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	rep.ID = r.t.nextID()
	rep.Status = enums.ModerationStatusPending
	rep.UpdatedAt = rep.CreatedAt
	r.t.rows[rep.ID] = rep
	return rep, nil
}

func (r *ReportRepo) List(_ context.Context, f model.ListFilter) ([]model.Report, int, error) {
	items, total := r.t.list(f, nil)
	return items, total, nil
}

func (r *ReportRepo) Get(_ context.Context, id int64) (model.Report, error) {
	return r.t.get(id)
}

func (r *ReportRepo) Transition(_ context.Context, id int64, t model.Transition) (model.Report, error) {
	return r.t.transition(id, func(e *model.Report) {
		e.Status = t.To
		e.ResolutionNote = t.Notes
		e.DecidedBy, e.DecidedAt = decided(t)
		e.UpdatedAt = t.At
	})
}

type CatalogRepo struct {
	mu      sync.RWMutex
	seq     int64
	species map[int64]model.Species
	breeds  map[int64]model.Breed
	pets    *PetRepo
}

func (r *CatalogRepo) ListSpecies(_ context.Context) ([]model.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Species, 0, len(r.species))
	for _, s := range r.species {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) GetSpecies(_ context.Context, id int64) (model.Species, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.species[id]
	if !ok {
		return model.Species{}, model.ErrNotFound
	}
	return s, nil
}

func (r *CatalogRepo) CreateSpecies(_ context.Context, name string) (model.Species, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.species {
		if strings.EqualFold(s.Name, name) {
			return model.Species{}, model.ErrDuplicate
		}
	}
	r.seq++
	s := model.Species{ID: r.seq, Name: name, CreatedAt: time.Now().UTC()}
	r.species[s.ID] = s
	return s, nil
}

func (r *CatalogRepo) DeleteSpecies(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.species[id]; !ok {
		return model.ErrNotFound
	}
	for _, b := range r.breeds {
		if b.SpeciesID == id {
			return model.ErrReferenced
		}
	}
	if r.pets != nil && r.pets.usesSpecies(id) {
		return model.ErrReferenced
	}
	delete(r.species, id)
	return nil
}

func (r *CatalogRepo) ListBreeds(_ context.Context, speciesID int64) ([]model.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Breed, 0)
	for _, b := range r.breeds {
		if b.SpeciesID == speciesID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) CreateBreed(_ context.Context, speciesID int64, name string) (model.Breed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.species[speciesID]; !ok {
		return model.Breed{}, model.ErrNotFound
	}
	for _, b := range r.breeds {
		if b.SpeciesID == speciesID && strings.EqualFold(b.Name, name) {
			return model.Breed{}, model.ErrDuplicate
		}
	}
	r.seq++
	b := model.Breed{ID: r.seq, SpeciesID: speciesID, Name: name, CreatedAt: time.Now().UTC()}
	r.breeds[b.ID] = b
	return b, nil
}

func (r *CatalogRepo) DeleteBreed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.breeds[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.breeds, id)
	return nil
}

type BuyerProfileRepo struct {
	mu       sync.RWMutex
	profiles map[int64]model.BuyerProfile
}

func (r *BuyerProfileRepo) GetProfile(_ context.Context, userID int64) (model.BuyerProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return model.BuyerProfile{}, model.ErrNotFound
	}
	return p, nil
}

func (r *BuyerProfileRepo) UpsertProfile(_ context.Context, p model.BuyerProfile) (model.BuyerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.UserID] = p
	return p, nil
}

type AdRepo struct {
	mu   sync.RWMutex
	seq  int64
	rows map[int64]model.AdListing
}

func (r *AdRepo) CreateListing(_ context.Context, ad model.AdListing) (model.AdListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	ad.ID = r.seq
	r.rows[ad.ID] = ad
	return ad, nil
}

func (r *AdRepo) ListLive(_ context.Context, placement enums.Placement, at time.Time) ([]model.AdListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.AdListing, 0)
	for _, ad := range r.rows {
		if placement != "" && ad.Placement != placement {
			continue
		}
		if ad.LiveAt(at) {
			out = append(out, ad)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.After(out[j].StartsAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type UserRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]model.User
}

func (r *UserRepo) Create(_ context.Context, u model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return model.User{}, model.ErrDuplicate
		}
	}
	r.seq++
	u.ID = r.seq
	r.byID[u.ID] = u
	return u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.byID {
		if u.Email == needle {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepo) CountUsers(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

type ActivityRepo struct {
	mu   sync.RWMutex
	seq  int64
	rows []model.Activity
}

func (r *ActivityRepo) Record(_ context.Context, a model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	a.ID = r.seq
	r.rows = append(r.rows, a)
	return nil
}

func (r *ActivityRepo) ListRecent(_ context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Activity, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

type StatsRepo struct {
	store *Store
}

func (r *StatsRepo) CountUsers(ctx context.Context) (int, error) {
	return r.store.Users.CountUsers(ctx)
}

func (r *StatsRepo) CountByStatus(_ context.Context, kind enums.EntityKind, status enums.ModerationStatus) (int, error) {
	switch kind {
	case enums.EntityKindAdRequest:
		return r.store.AdRequests.t.count(status), nil
	case enums.EntityKindSeller:
		return r.store.Sellers.t.count(status), nil
	case enums.EntityKindPet:
		return r.store.Pets.t.count(status), nil
	case enums.EntityKindReport:
		return r.store.Reports.t.count(status), nil
	default:
		return 0, model.ErrNotFound
	}
}
