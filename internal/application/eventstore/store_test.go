package eventstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/alchies-rsvp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SeedsRoster(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	ev, err := s.Create(ctx, beachBBQ())
	require.NoError(t, err)

	require.Len(t, ev.RSVPs, 14)
	assert.True(t, domain.UniqueRSVPs(ev.RSVPs))
	for _, r := range ev.RSVPs {
		assert.Equal(t, domain.RSVPUndecided, r.Status)
		assert.Nil(t, r.Rating)
	}
	assert.False(t, ev.IsArchived)
	assert.Empty(t, ev.Status, "status is whatever the caller supplied")
	assert.True(t, strings.HasPrefix(ev.ShareableLink, "https://rsvp.example.com/event/"))

	got, ok := s.Get(ev.ID)
	require.True(t, ok)
	assert.Equal(t, ev.ID, got.ID)
}

func TestCreate_KeepsSuppliedRSVPsAndLink(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	d := beachBBQ()
	d.RSVPs = []domain.RSVP{{UserID: "2", Name: "Tze", Status: domain.RSVPAttending}}
	d.ShareableLink = "https://elsewhere/event/abc"
	d.Status = domain.StatusActive

	ev, err := s.Create(ctx, d)
	require.NoError(t, err)
	assert.Len(t, ev.RSVPs, 1)
	assert.Equal(t, "https://elsewhere/event/abc", ev.ShareableLink)
	assert.Equal(t, domain.StatusActive, ev.Status)
}

func TestCreate_FailureLeavesStateUntouched(t *testing.T) {
	s, gw, _ := newTestStore()
	gw.SetDown(true)

	_, err := s.Create(context.Background(), beachBBQ())
	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))
	assert.Empty(t, s.Snapshot().Events)
}

func TestFetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces_collection_sorted_by_date", func(t *testing.T) {
		s, gw, _ := newTestStore()
		_, _ = gw.Create(ctx, domain.Draft{Title: "Movie Night", Date: "2023-06-20", Time: "19:00", Location: "Jamie's Place"})
		_, _ = gw.Create(ctx, beachBBQ())

		require.NoError(t, s.FetchAll(ctx))

		st := s.Snapshot()
		assert.Equal(t, StatusSucceeded, st.Status)
		require.Len(t, st.Events, 2)
		assert.Equal(t, "Beach BBQ", st.Events[0].Title)
		assert.Equal(t, "Movie Night", st.Events[1].Title)
	})

	t.Run("failure_keeps_collection_and_records_error", func(t *testing.T) {
		s, gw, _ := newTestStore()
		_, err := s.Create(ctx, beachBBQ())
		require.NoError(t, err)

		gw.SetDown(true)
		err = s.FetchAll(ctx)
		require.Error(t, err)

		st := s.Snapshot()
		assert.Equal(t, StatusFailed, st.Status)
		assert.Equal(t, "gateway unreachable", st.Err)
		assert.Len(t, st.Events, 1)
	})

	t.Run("passes_through_loading", func(t *testing.T) {
		s, _, _ := newTestStore()
		var seen []Status
		var mu sync.Mutex
		unsub := s.Subscribe(func(st State) {
			mu.Lock()
			seen = append(seen, st.Status)
			mu.Unlock()
		})
		defer unsub()

		require.NoError(t, s.FetchAll(ctx))
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []Status{StatusLoading, StatusSucceeded}, seen)
	})

	t.Run("reset_discards_superseded_result", func(t *testing.T) {
		s, gw, _ := newTestStore()
		_, _ = gw.Create(ctx, beachBBQ())

		entered := make(chan struct{})
		release := make(chan struct{})
		gw.getAllFn = func() {
			close(entered)
			<-release
		}

		done := make(chan error, 1)
		go func() { done <- s.FetchAll(ctx) }()

		<-entered
		s.Reset()
		close(release)

		assert.ErrorIs(t, <-done, ErrSuperseded)
		st := s.Snapshot()
		assert.Empty(t, st.Events)
		assert.Equal(t, StatusIdle, st.Status)
	})

	t.Run("cancelled_caller_does_not_fail_shared_fetch", func(t *testing.T) {
		s, gw, _ := newTestStore()
		_, _ = gw.Create(ctx, beachBBQ())

		entered := make(chan struct{})
		release := make(chan struct{})
		gw.setGetAllHook(func() {
			close(entered)
			<-release
		})

		ctxA, cancelA := context.WithCancel(ctx)
		doneA := make(chan error, 1)
		go func() { doneA <- s.FetchAll(ctxA) }()
		<-entered

		doneB := make(chan error, 1)
		go func() { doneB <- s.FetchAll(ctx) }()
		time.Sleep(20 * time.Millisecond)

		cancelA()
		assert.ErrorIs(t, <-doneA, context.Canceled)

		close(release)
		require.NoError(t, <-doneB)

		st := s.Snapshot()
		assert.Equal(t, StatusSucceeded, st.Status)
		assert.Empty(t, st.Err)
		assert.Len(t, st.Events, 1)
		assert.Equal(t, 1, gw.getAllCalls())
	})

	t.Run("fetch_after_reset_does_not_join_stale_flight", func(t *testing.T) {
		s, gw, _ := newTestStore()
		_, _ = gw.Create(ctx, domain.Draft{Title: "pre-reset", Date: "2023-06-01", Time: "10:00", Location: "Park"})

		entered := make(chan struct{})
		release := make(chan struct{})
		gw.setGetAllHook(func() {
			close(entered)
			<-release
		})

		stale := make(chan error, 1)
		go func() { stale <- s.FetchAll(ctx) }()
		<-entered

		s.Reset()
		gw.setGetAllHook(nil)
		post, err := gw.Create(ctx, domain.Draft{Title: "post-reset", Date: "2023-06-02", Time: "10:00", Location: "Pier"})
		require.NoError(t, err)
		require.NoError(t, gw.Delete(ctx, "ev-1"))

		require.NoError(t, s.FetchAll(ctx))
		assert.Equal(t, 2, gw.getAllCalls())

		close(release)
		assert.ErrorIs(t, <-stale, ErrSuperseded)

		st := s.Snapshot()
		assert.Equal(t, StatusSucceeded, st.Status)
		require.Len(t, st.Events, 1)
		assert.Equal(t, post.ID, st.Events[0].ID)
	})
}

func TestUpdateFields(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestStore()
	ev, err := s.Create(ctx, beachBBQ())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	out, err := s.UpdateFields(ctx, ev.ID, domain.Patch{Title: domain.StringPtr("Sunset BBQ")})
	require.NoError(t, err)
	assert.Equal(t, "Sunset BBQ", out.Title)
	assert.Equal(t, ev.CreatedAt, out.CreatedAt)
	assert.True(t, out.UpdatedAt.After(ev.UpdatedAt))

	got, _ := s.Get(ev.ID)
	assert.Equal(t, "Sunset BBQ", got.Title)
	assert.Equal(t, "Sunny Beach", got.Location)

	_, err = s.UpdateFields(ctx, "missing", domain.Patch{Title: domain.StringPtr("x")})
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateRSVP(t *testing.T) {
	ctx := context.Background()

	t.Run("replace_keeps_length", func(t *testing.T) {
		s, _, _ := newTestStore()
		ev, err := s.Create(ctx, beachBBQ())
		require.NoError(t, err)

		out, err := s.UpdateRSVP(ctx, ev.ID, domain.RSVP{UserID: "2", Name: "Tze", Status: domain.RSVPAttending})
		require.NoError(t, err)

		require.Len(t, out.RSVPs, 14)
		r, ok := domain.FindRSVP(out.RSVPs, "2")
		require.True(t, ok)
		assert.Equal(t, domain.RSVPAttending, r.Status)
		assert.Equal(t, "2", out.RSVPs[1].UserID, "replaced in place")

		local, _ := s.Get(ev.ID)
		assert.Equal(t, out.RSVPs, local.RSVPs)
	})

	t.Run("append_grows_by_one", func(t *testing.T) {
		s, _, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		out, err := s.UpdateRSVP(ctx, ev.ID, domain.RSVP{UserID: "guest", Name: "Guest", Status: domain.RSVPNotAttending})
		require.NoError(t, err)
		assert.Len(t, out.RSVPs, 15)
		assert.True(t, domain.UniqueRSVPs(out.RSVPs))
	})

	t.Run("merges_against_gateway_copy_not_local", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		// Someone else answered through another client.
		other, _ := domain.MergeRSVP(ev.RSVPs, domain.RSVP{UserID: "5", Name: "Cameron", Status: domain.RSVPAttending})
		_, err := gw.Update(ctx, ev.ID, domain.Patch{RSVPs: &other})
		require.NoError(t, err)

		out, err := s.UpdateRSVP(ctx, ev.ID, domain.RSVP{UserID: "2", Name: "Tze", Status: domain.RSVPAttending})
		require.NoError(t, err)
		r5, _ := domain.FindRSVP(out.RSVPs, "5")
		assert.Equal(t, domain.RSVPAttending, r5.Status)
	})

	t.Run("sends_whole_array", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		_, err := s.UpdateRSVP(ctx, ev.ID, domain.RSVP{UserID: "3", Name: "Tram", Status: domain.RSVPAttending})
		require.NoError(t, err)

		require.Len(t, gw.updates, 1)
		p := gw.updates[0]
		require.NotNil(t, p.RSVPs)
		assert.Len(t, *p.RSVPs, 14)
		assert.Nil(t, p.Title)
	})

	t.Run("unknown_event_is_not_found_and_local_untouched", func(t *testing.T) {
		s, _, _ := newTestStore()
		_, err := s.UpdateRSVP(ctx, "nope", domain.RSVP{UserID: "1", Status: domain.RSVPAttending})
		assert.True(t, domain.IsNotFound(err))
		assert.Empty(t, s.Snapshot().Events)
	})
}

func TestUpdateRating(t *testing.T) {
	ctx := context.Background()

	t.Run("set_then_clear", func(t *testing.T) {
		s, _, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		_, err := s.UpdateRating(ctx, ev.ID, "3", domain.FloatPtr(8))
		require.NoError(t, err)
		out, err := s.UpdateRating(ctx, ev.ID, "3", nil)
		require.NoError(t, err)

		r, _ := domain.FindRSVP(out.RSVPs, "3")
		assert.Nil(t, r.Rating)

		local, _ := s.Get(ev.ID)
		r, _ = domain.FindRSVP(local.RSVPs, "3")
		assert.Nil(t, r.Rating)
	})

	t.Run("missing_user_is_not_found", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		_, err := s.UpdateRating(ctx, ev.ID, "99", domain.FloatPtr(5))
		assert.True(t, domain.IsNotFound(err))
		assert.Empty(t, gw.updates)
	})

	t.Run("out_of_range_rejected_before_network", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())
		gw.SetDown(true)

		_, err := s.UpdateRating(ctx, ev.ID, "3", domain.FloatPtr(11))
		assert.True(t, domain.IsValidation(err))
	})
}

func TestArchive(t *testing.T) {
	ctx := context.Background()

	t.Run("gateway_unreachable_still_flips_locally", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, err := s.Create(ctx, beachBBQ())
		require.NoError(t, err)
		gw.SetDown(true)

		assert.NotPanics(t, func() { s.Archive(ctx, ev.ID) })

		got, _ := s.Get(ev.ID)
		assert.True(t, got.IsArchived)

		s.Wait()
		st := s.Snapshot()
		assert.False(t, st.Sync[ev.ID].Pending)
		assert.Contains(t, st.Sync[ev.ID].Err, "gateway unreachable")

		got, _ = s.Get(ev.ID)
		assert.True(t, got.IsArchived, "no rollback")
	})

	t.Run("pending_until_synced", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		s.Archive(ctx, ev.ID)
		s.Wait()

		_, pending := s.Snapshot().Sync[ev.ID]
		assert.False(t, pending)
		stored, _ := gw.stored(ev.ID)
		assert.True(t, stored.IsArchived)
	})

	t.Run("archive_then_unarchive_only_changes_updated_at", func(t *testing.T) {
		s, _, clock := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())
		before, _ := s.Get(ev.ID)

		clock.Advance(time.Second)
		s.Archive(ctx, ev.ID)
		clock.Advance(time.Second)
		s.Unarchive(ctx, ev.ID)
		s.Wait()

		after, _ := s.Get(ev.ID)
		assert.False(t, after.IsArchived)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

		after.UpdatedAt = before.UpdatedAt
		assert.Equal(t, before, after)
	})

	t.Run("caller_context_cancel_does_not_abort_sync", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, _ := s.Create(ctx, beachBBQ())

		cctx, cancel := context.WithCancel(ctx)
		s.Archive(cctx, ev.ID)
		cancel()
		s.Wait()

		stored, _ := gw.stored(ev.ID)
		assert.True(t, stored.IsArchived)
	})

	t.Run("unknown_id_is_ignored", func(t *testing.T) {
		s, gw, _ := newTestStore()
		s.Archive(ctx, "nope")
		s.Wait()
		assert.Empty(t, gw.updates)
		assert.Empty(t, s.Snapshot().Sync)
	})
}

func TestUpdatedAt_IsMonotonic(t *testing.T) {
	ctx := context.Background()
	s, gw, clock := newTestStore()
	ev, _ := s.Create(ctx, beachBBQ())
	created := ev.CreatedAt

	last := ev.UpdatedAt
	check := func() {
		t.Helper()
		got, ok := s.Get(ev.ID)
		require.True(t, ok)
		assert.False(t, got.UpdatedAt.Before(last))
		assert.Equal(t, created, got.CreatedAt)
		last = got.UpdatedAt
	}

	clock.Advance(time.Second)
	_, _ = s.UpdateRSVP(ctx, ev.ID, domain.RSVP{UserID: "1", Name: "Aubrey", Status: domain.RSVPAttending})
	check()

	clock.Advance(time.Second)
	s.Archive(ctx, ev.ID)
	check()
	s.Wait()

	// A gateway whose clock lags must not move the local stamp back.
	clock.Advance(-time.Hour)
	_, _ = s.UpdateRating(ctx, ev.ID, "1", domain.FloatPtr(9))
	check()

	gw.SetDown(true)
	s.Unarchive(ctx, ev.ID)
	check()
	s.Wait()
	check()
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	s, gw, _ := newTestStore()
	ev, _ := s.Create(ctx, beachBBQ())
	keep, _ := s.Create(ctx, domain.Draft{Title: "Movie Night", Date: "2023-06-20", Time: "19:00", Location: "Jamie's Place"})

	require.NoError(t, s.DeleteEvent(ctx, ev.ID))
	_, ok := s.Get(ev.ID)
	assert.False(t, ok)
	_, ok = s.Get(keep.ID)
	assert.True(t, ok)

	_, err := gw.GetByID(ctx, ev.ID)
	assert.True(t, domain.IsNotFound(err))

	err = s.DeleteEvent(ctx, ev.ID)
	assert.True(t, domain.IsNotFound(err), "second delete must fail")

	t.Run("failure_keeps_local_entry", func(t *testing.T) {
		gw.SetDown(true)
		defer gw.SetDown(false)
		require.Error(t, s.DeleteEvent(ctx, keep.ID))
		_, ok := s.Get(keep.ID)
		assert.True(t, ok)
	})
}

func TestUploadEventImage(t *testing.T) {
	ctx := context.Background()
	s, gw, _ := newTestStore()
	ev, _ := s.Create(ctx, beachBBQ())

	out, err := s.UploadEventImage(ctx, ev.ID, []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/events/1.jpg", out.ImageURL)

	local, _ := s.Get(ev.ID)
	assert.Equal(t, out.ImageURL, local.ImageURL)

	gw.SetDown(true)
	_, err = s.UploadEventImage(ctx, ev.ID, []byte{1})
	assert.True(t, domain.IsRemote(err))
}

func TestExpenses_AreIndependentOfTotal(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()
	ev, _ := s.Create(ctx, beachBBQ())

	out, err := s.SetTotalExpense(ctx, ev.ID, 100)
	require.NoError(t, err)
	require.NotNil(t, out.TotalExpense)

	out, err = s.AddExpense(ctx, ev.ID, domain.Expense{Amount: 42, Description: "charcoal", PaidBy: "1", Category: domain.CategoryOther})
	require.NoError(t, err)
	require.Len(t, out.Expenses, 1)
	assert.NotEmpty(t, out.Expenses[0].ID)
	assert.Equal(t, "2023-06-01", out.Expenses[0].Date)
	assert.Equal(t, 100.0, *out.TotalExpense)

	out, err = s.AddExpense(ctx, ev.ID, domain.Expense{Amount: 8, Description: "ice", PaidBy: "2", Category: domain.CategoryDrinks})
	require.NoError(t, err)
	assert.Len(t, out.Expenses, 2)
}

func TestSelectors(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	a, _ := s.Create(ctx, beachBBQ())
	d := domain.Draft{Title: "Movie Night", Date: "2023-06-20", Time: "19:00", Location: "Jamie's Place",
		LocationDetails: &domain.LocationDetails{PlaceID: "p1", Latitude: -33.8, Longitude: 151.2}}
	b, _ := s.Create(ctx, d)
	c, _ := s.Create(ctx, domain.Draft{Title: "Picnic", Date: "2023-05-02", Time: "12:00", Location: "Park"})

	s.Archive(ctx, b.ID)
	s.Archive(ctx, c.ID)
	s.Wait()

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	assert.Len(t, s.Memories(), 2)

	visited := s.VisitedLocations()
	require.Len(t, visited, 1)
	assert.Equal(t, b.ID, visited[0].ID)

	groups := s.MemoriesByMonth()
	require.Len(t, groups, 2)
	assert.Equal(t, "June 2023", groups[0].Month)
	assert.Equal(t, "May 2023", groups[1].Month)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()

	var versions []uint64
	unsub := s.Subscribe(func(st State) { versions = append(versions, st.Version) })

	ev, _ := s.Create(ctx, beachBBQ())
	_, _ = s.UpdateFields(ctx, ev.ID, domain.Patch{Description: domain.StringPtr("bring towels")})
	require.Len(t, versions, 2)
	assert.Less(t, versions[0], versions[1])

	unsub()
	unsub()
	_, _ = s.UpdateFields(ctx, ev.ID, domain.Patch{Description: domain.StringPtr("bring hats")})
	assert.Len(t, versions, 2)
}

func TestSnapshot_IsIsolated(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore()
	ev, _ := s.Create(ctx, beachBBQ())

	st := s.Snapshot()
	st.Events[0].RSVPs[0].Status = domain.RSVPAttending

	got, _ := s.Get(ev.ID)
	assert.Equal(t, domain.RSVPUndecided, got.RSVPs[0].Status)
}

func TestDuplicateRSVPsAreRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("update_fields", func(t *testing.T) {
		s, gw, _ := newTestStore()
		ev, err := s.Create(ctx, beachBBQ())
		require.NoError(t, err)

		dup := append(domain.CloneRSVPs(ev.RSVPs), domain.RSVP{UserID: "2", Name: "Tze", Status: domain.RSVPAttending})
		_, err = s.UpdateFields(ctx, ev.ID, domain.Patch{RSVPs: &dup})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		assert.Empty(t, gw.updates)
		stored, ok := gw.stored(ev.ID)
		require.True(t, ok)
		assert.Len(t, stored.RSVPs, 14)
		local, _ := s.Get(ev.ID)
		assert.True(t, domain.UniqueRSVPs(local.RSVPs))
	})

	t.Run("create", func(t *testing.T) {
		s, gw, _ := newTestStore()
		d := beachBBQ()
		d.RSVPs = []domain.RSVP{{UserID: "1", Status: domain.RSVPAttending}, {UserID: "1", Status: domain.RSVPUndecided}}

		_, err := s.Create(ctx, d)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, gw.order)
		assert.Empty(t, s.Snapshot().Events)
	})
}
