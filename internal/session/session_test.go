package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pojokcurhat/survey-service/internal/catalog"
)

func answerCurrent(t *testing.T, s *Session) {
	t.Helper()
	q := s.Current()
	require.NoError(t, s.SelectOption(q.Options[0].Value))
}

func completeSession(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < catalog.Size(); i++ {
		answerCurrent(t, s)
		if !s.IsLast() {
			require.NoError(t, s.Next())
		}
	}
}

func TestNewSession(t *testing.T) {
	s := New()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, PhaseAnswering, s.Phase)
	assert.Equal(t, 0, s.Step)
	assert.Empty(t, s.Answers)
}

func TestNext_RequiresAnswer(t *testing.T) {
	s := New()

	err := s.Next()
	assert.ErrorIs(t, err, ErrNoSelection)

	answerCurrent(t, s)
	assert.NoError(t, s.Next())
	assert.Equal(t, 1, s.Step)
}

func TestSelectOption_RejectsUnknownValue(t *testing.T) {
	s := New()

	err := s.SelectOption("definitely-not-an-option")
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestBack_PreservesAnswers(t *testing.T) {
	s := New()

	first := s.Current()
	answerCurrent(t, s)
	require.NoError(t, s.Next())

	require.NoError(t, s.Back())
	assert.Equal(t, 0, s.Step)

	value, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, first.Options[0].Value, value)
}

func TestBack_AtFirstQuestion(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Back(), ErrAtFirstQuestion)
}

func TestProgress(t *testing.T) {
	s := New()

	answered, total, percentage := s.Progress()
	assert.Equal(t, 0, answered)
	assert.Equal(t, catalog.Size(), total)
	assert.InDelta(t, 100.0/float64(total), percentage, 0.01)

	completeSession(t, s)
	answered, _, percentage = s.Progress()
	assert.Equal(t, catalog.Size(), answered)
	assert.InDelta(t, 100.0, percentage, 0.01)
	assert.True(t, s.IsComplete())
}

func TestBeginSubmit_RequiresCompletion(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.BeginSubmit(), ErrNotComplete)

	completeSession(t, s)
	assert.NoError(t, s.BeginSubmit())
	assert.Equal(t, PhaseSubmitting, s.Phase)
}

func TestBeginSubmit_GuardsDoubleSubmit(t *testing.T) {
	s := New()
	completeSession(t, s)

	require.NoError(t, s.BeginSubmit())
	assert.ErrorIs(t, s.BeginSubmit(), ErrSubmitInProgress)

	require.NoError(t, s.FinishSubmit())
	assert.ErrorIs(t, s.BeginSubmit(), ErrAlreadySubmitted)
}

func TestFailSubmit_AllowsRetry(t *testing.T) {
	s := New()
	completeSession(t, s)

	require.NoError(t, s.BeginSubmit())
	require.NoError(t, s.FailSubmit())
	assert.Equal(t, PhaseAnswering, s.Phase)

	assert.NoError(t, s.BeginSubmit())
}

func TestReset(t *testing.T) {
	s := New()
	oldID := s.ID
	answerCurrent(t, s)
	require.NoError(t, s.Next())

	require.NoError(t, s.Reset())
	assert.Equal(t, 0, s.Step)
	assert.Empty(t, s.Answers)
	assert.NotEqual(t, oldID, s.ID)
	assert.NotEmpty(t, s.ID)
}

func TestReset_AfterSubmit(t *testing.T) {
	s := New()
	completeSession(t, s)
	require.NoError(t, s.BeginSubmit())
	require.NoError(t, s.FinishSubmit())

	assert.ErrorIs(t, s.Reset(), ErrAlreadySubmitted)
}

func TestOrderedAnswers(t *testing.T) {
	s := New()
	completeSession(t, s)

	pairs := s.OrderedAnswers()
	require.Len(t, pairs, catalog.Size())
	for i, q := range catalog.Questions() {
		assert.Equal(t, q.ID, pairs[i].QuestionID)
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore(0)

	s := store.Create()
	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	store.Delete(s.ID)
	_, err = store.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Update(t *testing.T) {
	store := NewStore(0)
	s := store.Create()

	updated, err := store.Update(s.ID, func(sess *Session) error {
		return sess.SelectOption(sess.Current().Options[0].Value)
	})
	require.NoError(t, err)

	value, ok := updated.Selected()
	assert.True(t, ok)
	assert.NotEmpty(t, value)
}

func TestStore_Sweep(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	s := store.Create()

	_, err := store.Update(s.ID, func(sess *Session) error {
		sess.UpdatedAt = time.Now().Add(-time.Minute)
		return nil
	})
	require.NoError(t, err)

	removed := store.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, store.Len())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore(0)
	s := store.Create()

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	got.Answers["gender"] = "male"
	got.Step = 5

	again, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Answers)
	assert.Equal(t, 0, again.Step)
}

func TestStore_ConcurrentReadAndUpdate(t *testing.T) {
	store := NewStore(0)
	s := store.Create()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, err := store.Update(s.ID, func(sess *Session) error {
				return sess.SelectOption(sess.Current().Options[i%2].Value)
			})
			assert.NoError(t, err)
		}
	}()

	for i := 0; i < 500; i++ {
		got, err := store.Get(s.ID)
		require.NoError(t, err)
		_, err = json.Marshal(got)
		require.NoError(t, err)
	}
	<-done
}

func TestStore_UpdateRekeysOnReset(t *testing.T) {
	store := NewStore(0)
	s := store.Create()
	oldID := s.ID

	updated, err := store.Update(oldID, func(sess *Session) error {
		return sess.Reset()
	})
	require.NoError(t, err)
	require.NotEqual(t, oldID, updated.ID)

	_, err = store.Get(oldID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	got, err := store.Get(updated.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, got.ID)
}
