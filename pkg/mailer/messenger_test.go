package mailer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alianzmail/pkg/id"
	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

func emails(rs []*mailer.Recipient) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Email()
	}
	return out
}

func TestNewMessenger_GeneratesName(t *testing.T) {
	t.Parallel()

	a := mailer.NewMessenger("")
	b := mailer.NewMessenger("")

	assert.True(t, id.Valid(a.Name()))
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, "g1", mailer.NewMessenger("g1").Name())
}

func TestMessenger_Add(t *testing.T) {
	t.Parallel()

	t.Run("record", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.Add(mailer.ClassCC, mailer.RecipientRecord{Email: "a@x.com", Name: "A"}))

		require.Len(t, m.CC(), 1)
		assert.Equal(t, "A", m.CC()[0].Name())
	})

	t.Run("record type is ignored for single adds", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.AddBCC(mailer.RecipientRecord{Email: "a@x.com", Type: mailer.ClassCC}))

		assert.Len(t, m.BCC(), 1)
		assert.Empty(t, m.CC())
	})

	t.Run("recipient is copied with the given class", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		r := mailer.NewRecipient("a@x.com", "A", mailer.ClassDirect)
		require.NoError(t, m.AddCC(r))

		require.Len(t, m.CC(), 1)
		assert.NotSame(t, r, m.CC()[0])
		assert.Equal(t, mailer.ClassDirect, r.Class())
		assert.Equal(t, "a@x.com", m.CC()[0].Email())
		assert.Equal(t, "A", m.CC()[0].Name())
	})

	t.Run("record without email leaves the group unchanged", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.AddDirect(mailer.RecipientRecord{Email: "a@x.com"}))

		err := m.AddDirect(mailer.RecipientRecord{Name: "No Email"})

		require.ErrorIs(t, err, mailer.ErrMissingEmail)
		require.ErrorIs(t, err, mailer.ErrValidation)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("nil recipient", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		var r *mailer.Recipient

		require.ErrorIs(t, m.AddDirect(r), mailer.ErrNilRecipient)
		require.ErrorIs(t, m.AddDirect(nil), mailer.ErrNilRecipient)
		assert.Zero(t, m.Len())
	})

	t.Run("class all is rejected", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")

		require.ErrorIs(t, m.Add(mailer.ClassAll, mailer.RecipientRecord{Email: "a@x.com"}), mailer.ErrInvalidClass)
		assert.Zero(t, m.Len())
	})
}

func TestMessenger_AddMany_EntryClassOverridesDefault(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	err := m.AddMany(mailer.ClassDirect, []mailer.Entry{
		mailer.RecipientRecord{Email: "to1@x.com"},
		mailer.RecipientRecord{Email: "cc1@x.com", Type: mailer.ClassCC},
		mailer.NewRecipient("bcc1@x.com", "", mailer.ClassBCC),
		mailer.RecipientRecord{Email: "to2@x.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"to1@x.com", "to2@x.com"}, emails(m.Direct()))
	assert.Equal(t, []string{"cc1@x.com"}, emails(m.CC()))
	assert.Equal(t, []string{"bcc1@x.com"}, emails(m.BCC()))
}

func TestMessenger_AddMany_AllOrNothing(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	err := m.AddCCs(
		mailer.RecipientRecord{Email: "ok@x.com"},
		mailer.RecipientRecord{Name: "missing"},
		mailer.RecipientRecord{Email: "bad@x.com", Type: mailer.ClassAll},
	)

	require.ErrorIs(t, err, mailer.ErrMissingEmail)
	require.ErrorIs(t, err, mailer.ErrInvalidClass)

	var entryErr *mailer.EntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, 1, entryErr.Index)

	assert.Zero(t, m.Len())
}

func TestMessenger_AddMany_FailureLeavesEntriesUntouched(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	r := mailer.NewRecipient("b@y.com", "B", "")

	err := m.AddMany(mailer.ClassCC, []mailer.Entry{r, mailer.RecipientRecord{}})

	require.ErrorIs(t, err, mailer.ErrMissingEmail)
	assert.Zero(t, m.Len())
	assert.Equal(t, mailer.Class(""), r.Class())
}

func TestMessenger_SharedRecipientIsOwnedPerGroup(t *testing.T) {
	t.Parallel()

	r := mailer.NewRecipient("b@y.com", "B", mailer.ClassDirect)
	g1 := mailer.NewMessenger("g1")
	g2 := mailer.NewMessenger("g2")
	require.NoError(t, g1.AddDirect(r))
	require.NoError(t, g2.AddBCC(r))

	doc1, err := g1.Compile()
	require.NoError(t, err)
	assert.Equal(t, []mailer.Address{{Email: "b@y.com", Name: "B"}}, doc1.To)
	assert.Empty(t, doc1.BCC)

	r.Clear()
	g2.BCC()[0].SetName("Changed")

	doc2, err := g2.Compile()
	require.NoError(t, err)
	assert.Equal(t, []mailer.Address{{Email: "b@y.com", Name: "Changed"}}, doc2.BCC)

	doc1, err = g1.Compile()
	require.NoError(t, err)
	assert.Equal(t, []mailer.Address{{Email: "b@y.com", Name: "B"}}, doc1.To)
}

func TestMessenger_AddManyBestEffort(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	added, err := m.AddManyBestEffort(mailer.ClassBCC, []mailer.Entry{
		mailer.RecipientRecord{Email: "a@x.com"},
		mailer.RecipientRecord{},
		mailer.RecipientRecord{Email: "b@x.com"},
	})

	assert.Equal(t, 2, added)
	require.ErrorIs(t, err, mailer.ErrMissingEmail)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails(m.BCC()))

	added, err = m.AddManyBestEffort(mailer.ClassBCC, nil)
	assert.Zero(t, added)
	require.NoError(t, err)
}

func TestMessenger_Entries(t *testing.T) {
	t.Parallel()

	records := []mailer.RecipientRecord{{Email: "a@x.com"}, {Email: "b@x.com"}}

	m := mailer.NewMessenger("g")
	require.NoError(t, m.AddMany(mailer.ClassDirect, mailer.Entries(records)))
	assert.Equal(t, 2, m.Len())
}

func TestMessenger_Remove(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	require.NoError(t, m.AddDirects(
		mailer.RecipientRecord{Email: "dup@x.com", Name: "first"},
		mailer.RecipientRecord{Email: "dup@x.com", Name: "second"},
	))
	require.NoError(t, m.AddCC(mailer.RecipientRecord{Email: "dup@x.com", Name: "cc"}))

	assert.False(t, m.DropBCC("dup@x.com"))
	assert.False(t, m.DropDirect("missing@x.com"))

	require.True(t, m.DropDirect("dup@x.com"))
	require.Len(t, m.Direct(), 1)
	assert.Equal(t, "second", m.Direct()[0].Name())
	assert.Len(t, m.CC(), 1)

	require.True(t, m.Remove(mailer.ClassAll, "dup@x.com"))
	assert.Empty(t, m.Direct())
	assert.Len(t, m.CC(), 1)

	require.True(t, m.DropCC("dup@x.com"))
	assert.Zero(t, m.Len())
}

func TestMessenger_ClearOneClassKeepsOrderOfOthers(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	require.NoError(t, m.AddMany(mailer.ClassDirect, []mailer.Entry{
		mailer.RecipientRecord{Email: "to1@x.com"},
		mailer.RecipientRecord{Email: "bcc1@x.com", Type: mailer.ClassBCC},
		mailer.RecipientRecord{Email: "cc1@x.com", Type: mailer.ClassCC},
		mailer.RecipientRecord{Email: "to2@x.com"},
		mailer.RecipientRecord{Email: "bcc2@x.com", Type: mailer.ClassBCC},
		mailer.RecipientRecord{Email: "cc2@x.com", Type: mailer.ClassCC},
	}))

	m.ClearBCC()

	assert.Equal(t, []string{"to1@x.com", "cc1@x.com", "to2@x.com", "cc2@x.com"}, emails(m.All()))
	assert.Empty(t, m.BCC())

	m.ClearDirect()
	assert.Equal(t, []string{"cc1@x.com", "cc2@x.com"}, emails(m.All()))

	m.ClearAll()
	assert.Zero(t, m.Len())
}

func TestMessenger_RecipientsReturnsCopy(t *testing.T) {
	t.Parallel()

	m := mailer.NewMessenger("g")
	require.NoError(t, m.AddDirect(mailer.RecipientRecord{Email: "a@x.com"}))

	all := m.All()
	all[0] = nil

	require.NotNil(t, m.All()[0])
}

func TestMessenger_Compile(t *testing.T) {
	t.Parallel()

	t.Run("lists present only when populated", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.AddDirect(mailer.RecipientRecord{Email: "a@x.com"}))

		doc, err := m.Compile()
		require.NoError(t, err)

		assert.Equal(t, []mailer.Address{{Email: "a@x.com"}}, doc.To)
		assert.Nil(t, doc.CC)
		assert.Nil(t, doc.BCC)
		assert.Empty(t, doc.Subject)
		assert.Empty(t, doc.DispatchTime)
	})

	t.Run("overrides and order within class", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
		m := mailer.NewMessenger("g").SetSubject("Override").SetDispatchAt(at)
		require.NoError(t, m.AddCCs(
			mailer.RecipientRecord{Email: "c1@x.com"},
			mailer.RecipientRecord{Email: "c2@x.com", Name: "C2"},
		))

		doc, err := m.Compile()
		require.NoError(t, err)

		assert.Equal(t, "Override", doc.Subject)
		assert.Equal(t, "2026-10-18 09:30:00", doc.DispatchTime)
		assert.Equal(t, []mailer.Address{{Email: "c1@x.com"}, {Email: "c2@x.com", Name: "C2"}}, doc.CC)
		assert.Nil(t, doc.To)
	})

	t.Run("repeatable", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.AddBCC(mailer.RecipientRecord{Email: "a@x.com"}))

		first, err := m.Compile()
		require.NoError(t, err)
		second, err := m.Compile()
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("cleared recipient fails", func(t *testing.T) {
		t.Parallel()

		m := mailer.NewMessenger("g")
		require.NoError(t, m.AddDirect(mailer.NewRecipient("a@x.com", "A", mailer.ClassDirect)))
		m.Direct()[0].Clear()

		_, err := m.Compile()
		require.ErrorIs(t, err, mailer.ErrMissingEmail)
	})
}
