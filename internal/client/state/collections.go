package state

import "github.com/klinikapp/klinikd/internal/models"

// Per-collection accessors. Every setter and by-id operation commits through
// the same path: store write, notify, mutation hook.

func (s *State) ClinicSettings() models.ClinicSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *State) SetClinicSettings(cs models.ClinicSettings) {
	s.mu.Lock()
	s.settings = cs
	s.mu.Unlock()
	s.commit(models.KeyClinicSettings, cs)
}

func (s *State) Users() []models.AppUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.users)
}

func (s *State) SetUsers(users []models.AppUser) {
	s.mu.Lock()
	s.users = cloneSlice(users)
	snap := cloneSlice(s.users)
	s.mu.Unlock()
	s.commit(models.KeyUsers, snap)
}

func (s *State) UpsertUser(u models.AppUser) {
	s.mu.Lock()
	s.users = upsertByID(s.users, func(x models.AppUser) string { return x.ID }, u)
	snap := cloneSlice(s.users)
	s.mu.Unlock()
	s.commit(models.KeyUsers, snap)
}

func (s *State) RemoveUser(id string) {
	s.mu.Lock()
	s.users = removeByID(s.users, func(x models.AppUser) string { return x.ID }, id)
	snap := cloneSlice(s.users)
	s.mu.Unlock()
	s.commit(models.KeyUsers, snap)
}

func (s *State) Patients() []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.patients)
}

func (s *State) SetPatients(patients []models.Patient) {
	s.mu.Lock()
	s.patients = cloneSlice(patients)
	snap := cloneSlice(s.patients)
	s.mu.Unlock()
	s.commit(models.KeyPatients, snap)
}

func (s *State) UpsertPatient(p models.Patient) {
	s.mu.Lock()
	s.patients = upsertByID(s.patients, func(x models.Patient) string { return x.ID }, p)
	snap := cloneSlice(s.patients)
	s.mu.Unlock()
	s.commit(models.KeyPatients, snap)
}

func (s *State) RemovePatient(id string) {
	s.mu.Lock()
	s.patients = removeByID(s.patients, func(x models.Patient) string { return x.ID }, id)
	snap := cloneSlice(s.patients)
	s.mu.Unlock()
	s.commit(models.KeyPatients, snap)
}

func (s *State) Doctors() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.doctors)
}

func (s *State) SetDoctors(doctors []models.Doctor) {
	s.mu.Lock()
	s.doctors = cloneSlice(doctors)
	snap := cloneSlice(s.doctors)
	s.mu.Unlock()
	s.commit(models.KeyDoctors, snap)
}

func (s *State) UpsertDoctor(d models.Doctor) {
	s.mu.Lock()
	s.doctors = upsertByID(s.doctors, func(x models.Doctor) string { return x.ID }, d)
	snap := cloneSlice(s.doctors)
	s.mu.Unlock()
	s.commit(models.KeyDoctors, snap)
}

func (s *State) RemoveDoctor(id string) {
	s.mu.Lock()
	s.doctors = removeByID(s.doctors, func(x models.Doctor) string { return x.ID }, id)
	snap := cloneSlice(s.doctors)
	s.mu.Unlock()
	s.commit(models.KeyDoctors, snap)
}

func (s *State) Medicines() []models.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.medicines)
}

func (s *State) SetMedicines(medicines []models.Medicine) {
	s.mu.Lock()
	s.medicines = cloneSlice(medicines)
	snap := cloneSlice(s.medicines)
	s.mu.Unlock()
	s.commit(models.KeyMedicines, snap)
}

func (s *State) UpsertMedicine(m models.Medicine) {
	s.mu.Lock()
	s.medicines = upsertByID(s.medicines, func(x models.Medicine) string { return x.ID }, m)
	snap := cloneSlice(s.medicines)
	s.mu.Unlock()
	s.commit(models.KeyMedicines, snap)
}

func (s *State) RemoveMedicine(id string) {
	s.mu.Lock()
	s.medicines = removeByID(s.medicines, func(x models.Medicine) string { return x.ID }, id)
	snap := cloneSlice(s.medicines)
	s.mu.Unlock()
	s.commit(models.KeyMedicines, snap)
}

func (s *State) Inventory() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.inventory)
}

func (s *State) SetInventory(items []models.InventoryItem) {
	s.mu.Lock()
	s.inventory = cloneSlice(items)
	snap := cloneSlice(s.inventory)
	s.mu.Unlock()
	s.commit(models.KeyInventory, snap)
}

func (s *State) UpsertInventoryItem(item models.InventoryItem) {
	s.mu.Lock()
	s.inventory = upsertByID(s.inventory, func(x models.InventoryItem) string { return x.ID }, item)
	snap := cloneSlice(s.inventory)
	s.mu.Unlock()
	s.commit(models.KeyInventory, snap)
}

func (s *State) RemoveInventoryItem(id string) {
	s.mu.Lock()
	s.inventory = removeByID(s.inventory, func(x models.InventoryItem) string { return x.ID }, id)
	snap := cloneSlice(s.inventory)
	s.mu.Unlock()
	s.commit(models.KeyInventory, snap)
}

func (s *State) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.transactions)
}

func (s *State) SetTransactions(trx []models.Transaction) {
	s.mu.Lock()
	s.transactions = cloneSlice(trx)
	snap := cloneSlice(s.transactions)
	s.mu.Unlock()
	s.commit(models.KeyTransactions, snap)
}

func (s *State) UpsertTransaction(t models.Transaction) {
	s.mu.Lock()
	s.transactions = upsertByID(s.transactions, func(x models.Transaction) string { return x.ID }, t)
	snap := cloneSlice(s.transactions)
	s.mu.Unlock()
	s.commit(models.KeyTransactions, snap)
}

func (s *State) RemoveTransaction(id string) {
	s.mu.Lock()
	s.transactions = removeByID(s.transactions, func(x models.Transaction) string { return x.ID }, id)
	snap := cloneSlice(s.transactions)
	s.mu.Unlock()
	s.commit(models.KeyTransactions, snap)
}

func (s *State) Queue() []models.QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.queue)
}

func (s *State) SetQueue(queue []models.QueueItem) {
	s.mu.Lock()
	s.queue = cloneSlice(queue)
	snap := cloneSlice(s.queue)
	s.mu.Unlock()
	s.commit(models.KeyQueue, snap)
}

func (s *State) UpsertQueueItem(q models.QueueItem) {
	s.mu.Lock()
	s.queue = upsertByID(s.queue, func(x models.QueueItem) string { return x.ID }, q)
	snap := cloneSlice(s.queue)
	s.mu.Unlock()
	s.commit(models.KeyQueue, snap)
}

// SetQueueStatus updates one queue entry's status in place; unknown ids are a
// no-op and commit nothing.
func (s *State) SetQueueStatus(id, status string) {
	s.mu.Lock()
	changed := false
	for i := range s.queue {
		if s.queue[i].ID == id {
			s.queue[i].Status = status
			changed = true
			break
		}
	}
	snap := cloneSlice(s.queue)
	s.mu.Unlock()
	if changed {
		s.commit(models.KeyQueue, snap)
	}
}

func (s *State) RemoveQueueItem(id string) {
	s.mu.Lock()
	s.queue = removeByID(s.queue, func(x models.QueueItem) string { return x.ID }, id)
	snap := cloneSlice(s.queue)
	s.mu.Unlock()
	s.commit(models.KeyQueue, snap)
}

func (s *State) MedicalRecords() []models.MedicalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.medicalRecords)
}

func (s *State) SetMedicalRecords(records []models.MedicalEntry) {
	s.mu.Lock()
	s.medicalRecords = cloneSlice(records)
	snap := cloneSlice(s.medicalRecords)
	s.mu.Unlock()
	s.commit(models.KeyMedicalRecords, snap)
}

func (s *State) UpsertMedicalRecord(r models.MedicalEntry) {
	s.mu.Lock()
	s.medicalRecords = upsertByID(s.medicalRecords, func(x models.MedicalEntry) string { return x.ID }, r)
	snap := cloneSlice(s.medicalRecords)
	s.mu.Unlock()
	s.commit(models.KeyMedicalRecords, snap)
}

func (s *State) RemoveMedicalRecord(id string) {
	s.mu.Lock()
	s.medicalRecords = removeByID(s.medicalRecords, func(x models.MedicalEntry) string { return x.ID }, id)
	snap := cloneSlice(s.medicalRecords)
	s.mu.Unlock()
	s.commit(models.KeyMedicalRecords, snap)
}
