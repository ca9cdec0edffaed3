package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"chatguard/internal/classifier_client"
	"chatguard/internal/state"
	"chatguard/internal/word_filter"
)

type fakeClassifier struct {
	sequential      *classifier_client.Result
	all             []classifier_client.Result
	sequentialCalls int
	allCalls        int
}

func (f *fakeClassifier) AnalyzeSequential(_ context.Context, _ string) *classifier_client.Result {
	f.sequentialCalls++
	return f.sequential
}

func (f *fakeClassifier) AnalyzeAll(_ context.Context, _ string) []classifier_client.Result {
	f.allCalls++
	return f.all
}

func newTestResolver(st *state.State, classifier *fakeClassifier) (*Resolver, *word_filter.Store) {
	store := word_filter.NewStore()
	return NewResolver(store, classifier, st, zap.NewNop()), store
}

func TestResolve_CleanMessage(t *testing.T) {
	st := state.New(true, true, false, "m")
	resolver, _ := newTestResolver(st, &fakeClassifier{})

	assert.Equal(t, VerdictNone, resolver.Resolve(context.Background(), "обычное сообщение"))
}

func TestResolve_SemanticDetection(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{sequential: &classifier_client.Result{Topic: "cars", Detected: true}}
	resolver, _ := newTestResolver(st, classifier)

	verdict := resolver.Resolve(context.Background(), "поменял масло в двигателе")
	assert.Equal(t, NeuralVerdict("cars"), verdict)
	assert.Equal(t, 1, classifier.sequentialCalls)
}

func TestResolve_SemanticDisabledSkipsClassifier(t *testing.T) {
	st := state.New(true, true, false, "m")
	classifier := &fakeClassifier{sequential: &classifier_client.Result{Topic: "cars", Detected: true}}
	resolver, _ := newTestResolver(st, classifier)

	assert.Equal(t, VerdictNone, resolver.Resolve(context.Background(), "поменял масло"))
	assert.Equal(t, 0, classifier.sequentialCalls)
}

func TestResolve_ShortTextSkipsClassifier(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{sequential: &classifier_client.Result{Topic: "cars", Detected: true}}
	resolver, _ := newTestResolver(st, classifier)

	assert.Equal(t, VerdictNone, resolver.Resolve(context.Background(), "ок!"))
	assert.Equal(t, 0, classifier.sequentialCalls)
}

func TestResolve_ProfanityOverwritesSemantic(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{sequential: &classifier_client.Result{Topic: "bad_words", Detected: true}}
	resolver, store := newTestResolver(st, classifier)
	store.Replace(word_filter.CategoryProfanity, []string{"дурак"})

	verdict := resolver.Resolve(context.Background(), "ты дурак")
	assert.Equal(t, VerdictProfanity, verdict)
}

func TestResolve_AdvertisingOverwritesProfanity(t *testing.T) {
	st := state.New(true, true, false, "m")
	resolver, store := newTestResolver(st, &fakeClassifier{})
	store.Replace(word_filter.CategoryProfanity, []string{"дурак"})
	store.Replace(word_filter.CategoryAdvertising, []string{"скидка"})

	verdict := resolver.Resolve(context.Background(), "дурак, лови скидку")
	assert.Equal(t, VerdictAdvertising, verdict)
}

func TestResolve_CustomOverwritesEverything(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{sequential: &classifier_client.Result{Topic: "bad_words", Detected: true}}
	resolver, store := newTestResolver(st, classifier)
	store.Replace(word_filter.CategoryProfanity, []string{"дурак"})
	store.Replace(word_filter.CategoryAdvertising, []string{"скидка"})
	store.Replace(word_filter.CategoryCustom, []string{"казино"})

	verdict := resolver.Resolve(context.Background(), "дурак, скидка в казино")
	assert.Equal(t, VerdictCustom, verdict)
}

func TestResolve_CustomIndependentOfToggles(t *testing.T) {
	st := state.New(false, false, false, "m")
	resolver, store := newTestResolver(st, &fakeClassifier{})
	store.Replace(word_filter.CategoryCustom, []string{"казино"})

	verdict := resolver.Resolve(context.Background(), "ночное КАЗИНО открыто")
	assert.Equal(t, VerdictCustom, verdict)
}

func TestResolve_DisabledTogglesIgnoreLexicalMatches(t *testing.T) {
	st := state.New(false, false, false, "m")
	resolver, store := newTestResolver(st, &fakeClassifier{})
	store.Replace(word_filter.CategoryProfanity, []string{"дурак"})
	store.Replace(word_filter.CategoryAdvertising, []string{"скидка"})

	verdict := resolver.Resolve(context.Background(), "дурак, лови скидку")
	assert.Equal(t, VerdictNone, verdict)
}

func TestResolveExhaustive_FirstDetectedWins(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{all: []classifier_client.Result{
		{Topic: "bad_words", Detected: false},
		{Topic: "cars", Detected: true},
		{Topic: "advertising", Detected: true},
	}}
	resolver, _ := newTestResolver(st, classifier)

	verdict := resolver.ResolveExhaustive(context.Background(), "про машины и рекламу")
	assert.Equal(t, NeuralVerdict("cars"), verdict)
	assert.Equal(t, 1, classifier.allCalls)
	assert.Equal(t, 0, classifier.sequentialCalls)
}

func TestResolveExhaustive_LexicalStillOverwrites(t *testing.T) {
	st := state.New(true, true, true, "m")
	classifier := &fakeClassifier{all: []classifier_client.Result{
		{Topic: "cars", Detected: true},
	}}
	resolver, store := newTestResolver(st, classifier)
	store.Replace(word_filter.CategoryCustom, []string{"казино"})

	verdict := resolver.ResolveExhaustive(context.Background(), "машины и казино")
	assert.Equal(t, VerdictCustom, verdict)
}
