package inmemcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

func TestStoreNamespacing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	surveyAnswers := form.AnswerMap{"k": form.ScalarAnswer("survey")}
	feedbackAnswers := form.AnswerMap{"k": form.ScalarAnswer("feedback")}

	require.NoError(t, store.Save(ctx, schema.KindSurvey, "u1", surveyAnswers))
	require.NoError(t, store.Save(ctx, schema.KindFeedback, "u1", feedbackAnswers))

	// same subject, different kinds: no clobbering
	assert.Equal(t, surveyAnswers, store.Load(ctx, schema.KindSurvey, "u1"))
	assert.Equal(t, feedbackAnswers, store.Load(ctx, schema.KindFeedback, "u1"))

	// different subject: absent reads as empty
	assert.Empty(t, store.Load(ctx, schema.KindSurvey, "u2"))

	require.NoError(t, store.Clear(ctx, schema.KindSurvey, "u1"))
	assert.Empty(t, store.Load(ctx, schema.KindSurvey, "u1"))
	assert.Equal(t, feedbackAnswers, store.Load(ctx, schema.KindFeedback, "u1"))
}

func TestStoreCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.entries[key{schema.KindSurvey, "u1"}] = []byte(`{"broken`)

	got := store.Load(ctx, schema.KindSurvey, "u1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
