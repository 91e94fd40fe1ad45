package models

// Collection keys under which the local store persists each collection and
// under which the snapshot document carries them on the wire.
const (
	KeyClinicSettings = "clinicSettings"
	KeyUsers          = "users"
	KeyPatients       = "patients"
	KeyDoctors        = "doctors"
	KeyMedicines      = "medicines"
	KeyInventory      = "inventory"
	KeyTransactions   = "transactions"
	KeyQueue          = "queue"
	KeyMedicalRecords = "medicalRecords"
)

// CollectionKeys lists every persisted key; together they constitute one
// logical Snapshot.
var CollectionKeys = []string{
	KeyClinicSettings,
	KeyUsers,
	KeyPatients,
	KeyDoctors,
	KeyMedicines,
	KeyInventory,
	KeyTransactions,
	KeyQueue,
	KeyMedicalRecords,
}

// Snapshot is the complete clinic dataset at a point in time. It is the unit
// of synchronization: always read and written against the relay as one whole
// document, never field by field.
//
// A nil slice field means the key was absent from the decoded document; a
// non-nil empty slice means the key was present and empty. Pull merging relies
// on that distinction to avoid erasing local collections a malformed or
// partial remote document omitted.
type Snapshot struct {
	ClinicSettings *ClinicSettings `json:"clinicSettings"`
	Users          []AppUser       `json:"users"`
	Patients       []Patient       `json:"patients"`
	Doctors        []Doctor        `json:"doctors"`
	Medicines      []Medicine      `json:"medicines"`
	Inventory      []InventoryItem `json:"inventory"`
	Transactions   []Transaction   `json:"transactions"`
	Queue          []QueueItem     `json:"queue"`
	MedicalRecords []MedicalEntry  `json:"medicalRecords"`
	// LastSync is an informational RFC3339 timestamp stamped at push/export
	// time. It is never consulted to reject a stale write.
	LastSync string `json:"lastSync,omitempty"`
}

// IsEmpty reports whether the snapshot carries no settings and no collections
// at all, which is what a non-backup JSON document decodes to.
func (s Snapshot) IsEmpty() bool {
	return s.ClinicSettings == nil &&
		s.Users == nil &&
		s.Patients == nil &&
		s.Doctors == nil &&
		s.Medicines == nil &&
		s.Inventory == nil &&
		s.Transactions == nil &&
		s.Queue == nil &&
		s.MedicalRecords == nil
}
