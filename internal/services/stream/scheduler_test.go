package stream

import "testing"

func TestScheduler_AdmitsEveryNth(t *testing.T) {
	scheduler := NewScheduler(5)

	admitted := 0
	for i := 1; i <= 100; i++ {
		if scheduler.Admit() {
			admitted++
			if i%5 != 0 {
				t.Errorf("Arrival %d admitted outside the schedule", i)
			}
			scheduler.Done()
		}
	}

	if admitted != 20 {
		t.Errorf("Expected 20 admissions out of 100 arrivals, got %d", admitted)
	}
	if scheduler.Arrivals() != 100 {
		t.Errorf("Expected 100 recorded arrivals, got %d", scheduler.Arrivals())
	}
}

func TestScheduler_SkipsTickWhileInFlight(t *testing.T) {
	scheduler := NewScheduler(2)

	if scheduler.Admit() {
		t.Fatal("Arrival 1 must not be admitted with skip 2")
	}
	if !scheduler.Admit() {
		t.Fatal("Arrival 2 must be admitted")
	}

	// Previous classification still running: the next tick is skipped, not
	// queued.
	scheduler.Admit()
	if scheduler.Admit() {
		t.Error("Tick admitted while a classification was in flight")
	}

	scheduler.Done()
	scheduler.Admit()
	if !scheduler.Admit() {
		t.Error("Tick after Done must be admitted again")
	}
}

func TestScheduler_SkipFactorNormalized(t *testing.T) {
	scheduler := NewScheduler(0)

	if scheduler.Skip() != 1 {
		t.Errorf("Expected skip factor normalized to 1, got %d", scheduler.Skip())
	}
	if !scheduler.Admit() {
		t.Error("With skip 1 every arrival must be admitted")
	}
}
