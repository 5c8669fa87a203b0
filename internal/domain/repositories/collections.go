package repositories

// Collection names of the per-user record lists. Caches and read coalescing
// key their invalidation on these.
const (
	CollectionVitalSigns    = "vital-signs"
	CollectionMedications   = "medications"
	CollectionConsultations = "consultations"
)
