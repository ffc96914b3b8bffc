// Package knowledge holds the clinic's static reference data: clinic facts,
// accepted insurance plans, and the doctor directory. Everything here is
// immutable after construction and safe for concurrent reads.
package knowledge

// ClinicInfo describes the clinic itself.
type ClinicInfo struct {
	Name    string
	Hours   string
	Address string
	Contact string
}

// Doctor is one entry in the doctor directory. Booked holds datetime strings
// of existing appointments; the dialogue core only reads it.
type Doctor struct {
	Name   string
	Booked []string
}

// InsurancePlan describes an accepted insurance provider. Service and doctor
// order is part of the data: replies list them in this order.
type InsurancePlan struct {
	Provider         string
	CoveredServices  []string
	InNetworkDoctors []string
}

// Store bundles the static tables. Doctors and Plans are ordered slices;
// lookup scans honor that order so the first listed entry wins ties.
type Store struct {
	Clinic  ClinicInfo
	Doctors []Doctor
	Plans   []InsurancePlan
}

// NewStore builds a store from explicit tables.
func NewStore(clinic ClinicInfo, doctors []Doctor, plans []InsurancePlan) *Store {
	return &Store{Clinic: clinic, Doctors: doctors, Plans: plans}
}

// Defaults returns the store seeded with the clinic's reference data.
func Defaults() *Store {
	return NewStore(
		ClinicInfo{
			Name:    "Confido Health Clinic",
			Hours:   "Mon–Sat 9 AM–6 PM, closed Sundays",
			Address: "1245 West Green Street, Springfield, IL",
			Contact: "(217) 555-0138",
		},
		[]Doctor{
			{Name: "Dr. Singh", Booked: []string{"2025-10-05 15:00"}},
			{Name: "Dr. Patel"},
		},
		[]InsurancePlan{
			{
				Provider:         "BlueCross",
				CoveredServices:  []string{"general checkup", "cleaning", "x-ray"},
				InNetworkDoctors: []string{"Dr. Singh"},
			},
			{
				Provider:         "Aetna",
				CoveredServices:  []string{"cleaning", "dental exam", "follow-up"},
				InNetworkDoctors: []string{"Dr. Patel", "Dr. Singh"},
			},
		},
	)
}

// DoctorNames returns doctor names in directory order.
func (s *Store) DoctorNames() []string {
	names := make([]string, 0, len(s.Doctors))
	for _, d := range s.Doctors {
		names = append(names, d.Name)
	}
	return names
}
