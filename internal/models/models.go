// Package models defines the clinic's core data structures: the collections
// that make up a Snapshot and the clinic settings that identify a dataset.
package models

// Patient is a registered patient with their medical record number.
type Patient struct {
	// ID is the unique identifier for the patient.
	ID string `json:"id"`
	// Name is the patient's full name.
	Name string `json:"name"`
	// RMNumber is the medical record number assigned at registration.
	RMNumber string `json:"rmNumber"`
	// BirthDate is the date of birth in YYYY-MM-DD form.
	BirthDate string `json:"birthDate"`
	// Gender is "Laki-laki" or "Perempuan".
	Gender string `json:"gender"`
	// LastVisit is the date of the most recent visit.
	LastVisit string `json:"lastVisit"`
	// Type is the payment type, "Umum" or "BPJS".
	Type string `json:"type"`
	// BPJSClass is the BPJS class ("Kelas 1".."Kelas 3"), set for BPJS patients only.
	BPJSClass string `json:"bpjsClass,omitempty"`
}

// MedicalEntry is one SOAP-format medical record for a patient visit.
type MedicalEntry struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId"`
	Date       string `json:"date"`
	DoctorName string `json:"doctorName"`
	// Subjective is the chief complaint.
	Subjective string `json:"subjective"`
	// Objective holds vitals and physical examination findings.
	Objective string `json:"objective"`
	// Assessment is the diagnosis.
	Assessment string `json:"assessment"`
	// Plan holds therapy, prescription and follow-up.
	Plan string `json:"plan"`
	// IsProcessed marks whether the pharmacy has prepared the prescription.
	IsProcessed bool `json:"isProcessed,omitempty"`
}

// Doctor is a practicing doctor and their availability.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	// Status is "Tersedia", "Sibuk" or "Tidak Aktif".
	Status        string `json:"status"`
	PatientsToday int    `json:"patientsToday"`
}

// Medicine is one pharmacy stock item.
type Medicine struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Stock int    `json:"stock"`
	// Price is the unit price in rupiah.
	Price int64 `json:"price"`
	// Category is "Tablet", "Sirup", "Antibiotik", "Suplemen" or "Lainnya".
	Category string `json:"category"`
}

// InventoryItem is a non-medicine supply item with a restock threshold.
type InventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	MinStock int    `json:"minStock"`
}

// TransactionItem is one billed line within a transaction.
type TransactionItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Transaction is one cashier bill with its line items.
type Transaction struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	Date        string            `json:"date"`
	Items       []TransactionItem `json:"items"`
	Total       int64             `json:"total"`
	// Status is "Menunggu" (pending) or "Lunas" (paid).
	Status string `json:"status"`
	// PaymentMethod is "Tunai", "Debit" or "QRIS", set once paid.
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// QueueItem is one entry in a polyclinic's waiting queue.
type QueueItem struct {
	ID          string `json:"id"`
	No          string `json:"no"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	// Poli is the polyclinic: "Umum", "Gigi", "Anak" or "Kandungan".
	Poli string `json:"poli"`
	// Status is "Menunggu", "Diperiksa", "Selesai" or "Batal".
	Status string `json:"status"`
	Time   string `json:"time"`
}

// AppUser is a staff account.
//
// Password always holds a bcrypt hash, never a cleartext password; hashing
// happens in the auth package before a user ever enters a collection, so
// nothing recoverable leaves the device in a push or a backup file.
type AppUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	// Role is "Administrator", "Dokter", "Perawat", "Apoteker" or "Kasir".
	Role       string `json:"role"`
	Email      string `json:"email"`
	LastActive string `json:"lastActive"`
	// Status is "Aktif" or "Nonaktif".
	Status string `json:"status"`
}

// ClinicSettings identifies the clinic and carries the cloud sync state.
type ClinicSettings struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
	// KlinikID is the opaque identifier addressing this clinic's snapshot
	// document at the relay. Stable once provisioned.
	KlinikID string `json:"klinikId,omitempty"`
	// IsCloudEnabled reports whether cross-device sync is turned on.
	IsCloudEnabled bool `json:"isCloudEnabled,omitempty"`
}

// DefaultClinicSettings returns the settings seeded on first run of a fresh
// device, before the operator has configured or provisioned anything.
func DefaultClinicSettings() ClinicSettings {
	return ClinicSettings{
		Name:     "Klinik Sehat Utama",
		Email:    "kontak@kliniksehat.com",
		Phone:    "021-5550123",
		Address:  "Jl. Kesehatan No. 123, Jakarta Selatan",
		Timezone: "Asia/Jakarta",
	}
}
