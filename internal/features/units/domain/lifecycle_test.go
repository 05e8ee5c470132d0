package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func registeredUnit(t *testing.T) Unit {
	t.Helper()
	parsed, err := ParseCode(buildCode("0104517715966683", "261231", "LOT123", "SN000000000001"))
	require.NoError(t, err)
	u, _ := NewUnit(parsed, Actor{Name: "sato"}, t0, "e1")
	return u
}

func TestNewUnit(t *testing.T) {
	parsed, err := ParseCode(buildCode("0104517715967246", "261231", "LOT123", "SN000000000001"))
	require.NoError(t, err)

	jst := time.FixedZone("JST", 9*60*60)
	u, entry := NewUnit(parsed, Actor{}, t0.In(jst), "e1")

	assert.Equal(t, "SN000000000001", u.Key)
	assert.Equal(t, Size40ml, u.ProductSize)
	assert.Equal(t, StatusRegistered, u.Status)
	assert.Empty(t, u.Place)
	assert.Equal(t, int64(1), u.Version)
	assert.Equal(t, time.UTC, u.LastUpdated.Location())
	assert.True(t, u.LastUpdated.Equal(t0))

	assert.Equal(t, OpIntake, entry.Operation)
	assert.Equal(t, AnonymousActor, entry.Actor)
	assert.Equal(t, "", entry.StatusBefore)
	assert.Equal(t, "Registered", entry.StatusAfter)
	require.Equal(t, 1, u.History.Len())
	assert.Equal(t, entry, u.History[0])
}

func TestApply_Checkout(t *testing.T) {
	u := registeredUnit(t)

	t.Run("Success", func(t *testing.T) {
		next, entry, err := Apply(u, Transition{Op: OpCheckout, Actor: Actor{Name: "ito"}, Place: "  内科 ", At: t0.Add(time.Hour), EntryID: "e2"})
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedOut, next.Status)
		assert.Equal(t, "内科", next.Place)
		assert.True(t, next.LastUpdated.Equal(t0.Add(time.Hour)))
		assert.Equal(t, u.Version, next.Version, "version is bumped by the repository")
		assert.Equal(t, 1, next.History.Len(), "history is appended by the repository")

		assert.Equal(t, HistoryEntry{
			ID:           "e2",
			Operation:    OpCheckout,
			Actor:        "ito",
			OccurredAt:   t0.Add(time.Hour),
			StatusBefore: "Registered",
			StatusAfter:  "CheckedOut",
			PlaceBefore:  "",
			PlaceAfter:   "内科",
		}, entry)

		// lot, expiration and key never change
		assert.Equal(t, u.Key, next.Key)
		assert.Equal(t, u.LotNumber, next.LotNumber)
		assert.Equal(t, u.ExpirationDate, next.ExpirationDate)
	})

	t.Run("PlaceRequired", func(t *testing.T) {
		_, _, err := Apply(u, Transition{Op: OpCheckout, Place: "   ", At: t0})
		assert.ErrorIs(t, err, ErrPlaceRequired)
	})

	t.Run("AlreadyCheckedOut", func(t *testing.T) {
		next, _, err := Apply(u, Transition{Op: OpCheckout, Place: "外科", At: t0})
		require.NoError(t, err)

		_, _, err = Apply(next, Transition{Op: OpCheckout, Place: "外科", At: t0})
		require.ErrorIs(t, err, ErrInvalidTransition)

		var te *TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, OpCheckout, te.Op)
		assert.Equal(t, u.Key, te.Key)
		assert.Equal(t, StatusCheckedOut, te.Status)
	})
}

func TestApply_Submit(t *testing.T) {
	u := registeredUnit(t)

	t.Run("FromRegistered", func(t *testing.T) {
		_, _, err := Apply(u, Transition{Op: OpSubmit, At: t0})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("KeepsPlace", func(t *testing.T) {
		out, _, err := Apply(u, Transition{Op: OpCheckout, Place: "病棟", At: t0})
		require.NoError(t, err)

		done, entry, err := Apply(out, Transition{Op: OpSubmit, At: t0.Add(time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, done.Status)
		assert.Equal(t, "病棟", done.Place)
		assert.Equal(t, entry.PlaceBefore, entry.PlaceAfter)

		_, _, err = Apply(done, Transition{Op: OpSubmit, At: t0})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, _, err = Apply(done, Transition{Op: OpCheckout, Place: "病棟", At: t0})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestApply_AdminEdit(t *testing.T) {
	admin := Actor{Name: "admin", Admin: true}
	u := registeredUnit(t)
	submitted := StatusSubmitted
	registered := StatusRegistered
	place := "内視鏡"

	t.Run("Forbidden", func(t *testing.T) {
		_, _, err := Apply(u, Transition{Op: OpAdminEdit, Actor: Actor{Name: "ito"}, Edit: AdminEdit{Status: &submitted}})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := Apply(u, Transition{Op: OpAdminEdit, Actor: admin})
		assert.ErrorIs(t, err, ErrEmptyEdit)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		bogus := Status("Lost")
		_, _, err := Apply(u, Transition{Op: OpAdminEdit, Actor: admin, Edit: AdminEdit{Status: &bogus}})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("SkipsAheadAndBack", func(t *testing.T) {
		ahead, entry, err := Apply(u, Transition{Op: OpAdminEdit, Actor: admin, Edit: AdminEdit{Status: &submitted, Place: &place}, At: t0})
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, ahead.Status)
		assert.Equal(t, "内視鏡", ahead.Place)
		assert.Equal(t, "Registered", entry.StatusBefore)
		assert.Equal(t, "Submitted", entry.StatusAfter)
		assert.Equal(t, "admin", entry.Actor)

		back, entry, err := Apply(ahead, Transition{Op: OpAdminEdit, Actor: admin, Edit: AdminEdit{Status: &registered}, At: t0})
		require.NoError(t, err)
		assert.Equal(t, StatusRegistered, back.Status)
		assert.Equal(t, "内視鏡", back.Place, "unset fields are kept")
		assert.Equal(t, "Submitted", entry.StatusBefore)
		assert.Equal(t, "Registered", entry.StatusAfter)
	})
}

func TestApply_UnsupportedOperation(t *testing.T) {
	u := registeredUnit(t)
	for _, op := range []Operation{OpIntake, Operation("teleport")} {
		_, _, err := Apply(u, Transition{Op: op, At: t0})
		assert.ErrorIs(t, err, ErrInvalidTransition, op)
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(OpCheckout, "k", Actor{}))
	assert.NoError(t, Authorize(OpDelete, "k", Actor{Name: "root", Admin: true}))
	assert.ErrorIs(t, Authorize(OpDelete, "k", Actor{Name: "ito"}), ErrForbidden)
	assert.ErrorIs(t, Authorize(OpAdminEdit, "k", Actor{}), ErrForbidden)
}

func TestStatus(t *testing.T) {
	st, err := ParseStatus("CheckedOut")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, st)
	assert.Less(t, StatusRegistered.Rank(), StatusCheckedOut.Rank())
	assert.Less(t, StatusCheckedOut.Rank(), StatusSubmitted.Rank())

	_, err = ParseStatus("checkedout")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, Status("").Valid())
}

func TestActor_Identity(t *testing.T) {
	assert.Equal(t, "sato", Actor{Name: " sato "}.Identity())
	assert.Equal(t, AnonymousActor, Actor{Name: "  "}.Identity())
}
