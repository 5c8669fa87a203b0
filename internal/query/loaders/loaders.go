package loaders

import (
	"context"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"golang.org/x/sync/singleflight"
)

// DefaultWait is how long a loader collects keys before dispatching a batch
const DefaultWait = 2 * time.Millisecond

// VitalSignKey identifies one vital sign listing. AllUsers ignores UserID.
type VitalSignKey struct {
	UserID   int64
	AllUsers bool
	Limit    int
}

// MedicationKey identifies one medication listing. ActiveSet reports whether
// Active filters the listing.
type MedicationKey struct {
	UserID    int64
	AllUsers  bool
	Active    bool
	ActiveSet bool
}

// ConsultationKey identifies one consultation listing
type ConsultationKey struct {
	UserID int64
	Limit  int
}

// Loaders coalesces concurrent identical list reads into one store call.
// Keys landing in the same batch window are deduplicated, and a batch whose key
// is already being fetched under the current write generation joins that
// fetch. Results are never memoized, so a read issued after a write always
// observes it.
type Loaders struct {
	VitalSignLoader    *dataloader.Loader[VitalSignKey, []*entities.VitalSign]
	MedicationLoader   *dataloader.Loader[MedicationKey, []*entities.Medication]
	ConsultationLoader *dataloader.Loader[ConsultationKey, []*entities.Consultation]
}

// NewLoaders creates the process-wide loaders
func NewLoaders(
	vitalSignRepo repositories.VitalSignRepository,
	medicationRepo repositories.MedicationRepository,
	consultationRepo repositories.ConsultationRepository,
	gens *Generations,
	wait time.Duration,
) *Loaders {
	if wait <= 0 {
		wait = DefaultWait
	}
	if gens == nil {
		gens = NewGenerations()
	}

	return &Loaders{
		VitalSignLoader: newListLoader(wait,
			func(key VitalSignKey) string {
				return gens.flightKey(repositories.CollectionVitalSigns, key.scope(), key)
			},
			func(ctx context.Context, key VitalSignKey) ([]*entities.VitalSign, error) {
				return vitalSignRepo.List(ctx, key.Filter())
			}),
		MedicationLoader: newListLoader(wait,
			func(key MedicationKey) string {
				return gens.flightKey(repositories.CollectionMedications, key.scope(), key)
			},
			func(ctx context.Context, key MedicationKey) ([]*entities.Medication, error) {
				return medicationRepo.List(ctx, key.Filter())
			}),
		ConsultationLoader: newListLoader(wait,
			func(key ConsultationKey) string {
				return gens.flightKey(repositories.CollectionConsultations, key.UserID, key)
			},
			func(ctx context.Context, key ConsultationKey) ([]*entities.Consultation, error) {
				return consultationRepo.List(ctx, repositories.ConsultationFilter{UserID: key.UserID, Limit: key.Limit})
			}),
	}
}

func (k VitalSignKey) scope() int64 {
	if k.AllUsers {
		return 0
	}
	return k.UserID
}

func (k MedicationKey) scope() int64 {
	if k.AllUsers {
		return 0
	}
	return k.UserID
}

// Filter converts the key back to a repository filter
func (k VitalSignKey) Filter() repositories.VitalSignFilter {
	filter := repositories.VitalSignFilter{Limit: k.Limit}
	if !k.AllUsers {
		userID := k.UserID
		filter.UserID = &userID
	}
	return filter
}

// Filter converts the key back to a repository filter
func (k MedicationKey) Filter() repositories.MedicationFilter {
	filter := repositories.MedicationFilter{}
	if !k.AllUsers {
		userID := k.UserID
		filter.UserID = &userID
	}
	if k.ActiveSet {
		active := k.Active
		filter.IsActive = &active
	}
	return filter
}

// VitalSignKeyFor builds the loader key of a filter
func VitalSignKeyFor(filter repositories.VitalSignFilter) VitalSignKey {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultVitalSignLimit
	}
	if filter.UserID == nil {
		return VitalSignKey{AllUsers: true, Limit: limit}
	}
	return VitalSignKey{UserID: *filter.UserID, Limit: limit}
}

// MedicationKeyFor builds the loader key of a filter
func MedicationKeyFor(filter repositories.MedicationFilter) MedicationKey {
	key := MedicationKey{AllUsers: filter.UserID == nil}
	if filter.UserID != nil {
		key.UserID = *filter.UserID
	}
	if filter.IsActive != nil {
		key.Active = *filter.IsActive
		key.ActiveSet = true
	}
	return key
}

// ConsultationKeyFor builds the loader key of a filter
func ConsultationKeyFor(filter repositories.ConsultationFilter) ConsultationKey {
	limit := filter.Limit
	if limit <= 0 {
		limit = repositories.DefaultConsultationLimit
	}
	return ConsultationKey{UserID: filter.UserID, Limit: limit}
}

// newListLoader builds a non-caching loader whose batch function runs each
// distinct key once and hands the shared result to every duplicate. Fetches
// with the same flight key share one call across batches.
func newListLoader[K comparable, V any](
	wait time.Duration,
	flightKey func(key K) string,
	fetch func(ctx context.Context, key K) ([]V, error),
) *dataloader.Loader[K, []V] {
	var flights singleflight.Group

	batch := func(ctx context.Context, keys []K) []*dataloader.Result[[]V] {
		// The batch outlives whichever caller happened to open it.
		ctx = context.WithoutCancel(ctx)

		unique := make(map[K]*dataloader.Result[[]V], len(keys))
		for _, key := range keys {
			if _, ok := unique[key]; !ok {
				unique[key] = &dataloader.Result[[]V]{}
			}
		}

		var wg sync.WaitGroup
		for key, result := range unique {
			wg.Add(1)
			go func(key K, result *dataloader.Result[[]V]) {
				defer wg.Done()
				v, err, _ := flights.Do(flightKey(key), func() (interface{}, error) {
					return fetch(ctx, key)
				})
				result.Error = err
				if err == nil {
					result.Data = v.([]V)
				}
			}(key, result)
		}
		wg.Wait()

		results := make([]*dataloader.Result[[]V], len(keys))
		for i, key := range keys {
			results[i] = unique[key]
		}
		return results
	}

	return dataloader.NewBatchedLoader(
		batch,
		dataloader.WithCache[K, []V](&dataloader.NoCache[K, []V]{}),
		dataloader.WithWait[K, []V](wait),
	)
}
