package prediction

import (
	"fmt"
	"sync"
	"testing"

	"sortserver/internal/models"
)

func classificationFor(material string, confidence float32) models.Classification {
	return models.Classification{
		MaterialType: material,
		Confidence:   confidence,
		Action:       "sort_" + material,
		All:          models.NewDistribution([]string{material}, []float32{confidence}),
		Source:       models.SourceStream,
	}
}

func TestStore_EmptySnapshot(t *testing.T) {
	store := NewStore()

	snap := store.Snapshot()
	if snap.Current != nil {
		t.Error("New store must have no classification")
	}
	if snap.FrameCount != 0 {
		t.Errorf("Expected zero frame count, got %d", snap.FrameCount)
	}
}

func TestStore_UpdateSupersedes(t *testing.T) {
	store := NewStore()

	store.Update(classificationFor("plastic", 0.9), true)
	store.Update(classificationFor("tin", 0.8), true)

	snap := store.Snapshot()
	if snap.Current == nil {
		t.Fatal("Expected a classification after updates")
	}
	if snap.Current.MaterialType != "tin" {
		t.Errorf("Expected latest result 'tin', got %q", snap.Current.MaterialType)
	}
	if snap.FrameCount != 2 {
		t.Errorf("Expected frame count 2, got %d", snap.FrameCount)
	}
}

func TestStore_CountFrameFlag(t *testing.T) {
	store := NewStore()

	store.Update(classificationFor("plastic", 0.9), true)
	store.Update(classificationFor("tin", 0.8), false)

	if got := store.FrameCount(); got != 1 {
		t.Errorf("Expected frame count 1, got %d", got)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.Update(classificationFor("plastic", 0.9), true)

	snap := store.Snapshot()
	snap.Current.MaterialType = "mutated"
	snap.Current.All.Scores[0] = 0

	fresh := store.Snapshot()
	if fresh.Current.MaterialType != "plastic" {
		t.Error("Mutating a snapshot leaked into the store")
	}
	if fresh.Current.All.Scores[0] != 0.9 {
		t.Error("Mutating a snapshot distribution leaked into the store")
	}
}

func TestStore_SnapshotIsolationUnderConcurrency(t *testing.T) {
	store := NewStore()

	const writes = 500
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < writes; i++ {
			material := fmt.Sprintf("material-%d", i)
			store.Update(models.Classification{
				MaterialType: material,
				Confidence:   1,
				Action:       "sort_" + material,
				All:          models.NewDistribution([]string{material}, []float32{1}),
			}, true)
		}
	}()

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				snap := store.Snapshot()
				if snap.Current != nil {
					// Material, action and distribution must always belong
					// to the same committed update.
					if snap.Current.Action != "sort_"+snap.Current.MaterialType {
						t.Errorf("Torn read: material %q with action %q", snap.Current.MaterialType, snap.Current.Action)
						return
					}
					if snap.Current.All.Labels[0] != snap.Current.MaterialType {
						t.Errorf("Torn read: material %q with distribution %v", snap.Current.MaterialType, snap.Current.All.Labels)
						return
					}
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	<-done
	wg.Wait()

	if got := store.FrameCount(); got != writes {
		t.Errorf("Expected %d counted frames, got %d", writes, got)
	}
}
