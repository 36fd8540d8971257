package core

import (
	"sync"
	"testing"

	"triage-chatbot/pkg"
)

func TestAcquireCreatesOnce(t *testing.T) {
	store := NewConversationStore(0)
	c1, release1, created := store.Acquire("s1", "headache")
	if !created {
		t.Fatal("first acquire should create the session")
	}
	release1()
	c2, release2, created := store.Acquire("s1", "ignored")
	defer release2()
	if created {
		t.Fatal("second acquire must not re-create the session")
	}
	if c1 != c2 {
		t.Fatal("acquire returned different contexts for the same session")
	}
	if c2.InitialSymptoms() != "headache" {
		t.Fatalf("founding symptoms overwritten: %q", c2.InitialSymptoms())
	}
}

func TestConcurrentFirstMessagesCreateSingleContext(t *testing.T) {
	store := NewConversationStore(0)
	const workers = 32
	contexts := make([]*CaseContext, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, release, _ := store.Acquire("shared", "first message")
			contexts[i] = c
			release()
		}(i)
	}
	wg.Wait()
	for i := 1; i < workers; i++ {
		if contexts[i] != contexts[0] {
			t.Fatal("duplicate case contexts created for one session")
		}
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d sessions, want 1", store.Len())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewConversationStore(0)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c, release, _ := store.Acquire("cardiac", "chest pain radiating to my left arm")
		defer release()
		c.ValidateOrganSystem(ClassifyOrganSystem(c.InitialSymptoms()))
		c.EscalateTo(pkg.TierEmergency)
	}()
	go func() {
		defer wg.Done()
		c, release, _ := store.Acquire("gi", "stomach cramps after eating")
		defer release()
		c.ValidateOrganSystem(ClassifyOrganSystem(c.InitialSymptoms()))
	}()
	wg.Wait()

	cardiac, ok := store.Snapshot("cardiac")
	if !ok {
		t.Fatal("cardiac session missing")
	}
	gi, ok := store.Snapshot("gi")
	if !ok {
		t.Fatal("gi session missing")
	}
	if cardiac.OrganSystem != pkg.SystemCardiovascular || cardiac.UrgencyTier != pkg.TierEmergency {
		t.Fatalf("cardiac session polluted: %+v", cardiac)
	}
	if gi.OrganSystem != pkg.SystemGastrointestinal || gi.UrgencyTier != pkg.TierRoutine {
		t.Fatalf("gi session polluted: %+v", gi)
	}
}

func TestSnapshotUnknownSession(t *testing.T) {
	store := NewConversationStore(0)
	if _, ok := store.Snapshot("nope"); ok {
		t.Fatal("snapshot of unknown session should report absence")
	}
}
