package moderation

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"chatguard/internal/classifier_client"
	"chatguard/internal/state"
	"chatguard/internal/word_filter"
)

// SemanticClassifier is the slice of the classifier client the resolver
// consumes.
type SemanticClassifier interface {
	AnalyzeSequential(ctx context.Context, text string) *classifier_client.Result
	AnalyzeAll(ctx context.Context, text string) []classifier_client.Result
}

// minSemanticLength is the shortest message (in runes) worth sending to
// the classifier on the main path.
const minSemanticLength = 3

// Resolver merges the semantic and lexical signals for one message into
// exactly one Verdict.
type Resolver struct {
	words      *word_filter.Store
	classifier SemanticClassifier
	state      *state.State
	logger     *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(words *word_filter.Store, classifier SemanticClassifier, st *state.State, logger *zap.Logger) *Resolver {
	return &Resolver{
		words:      words,
		classifier: classifier,
		state:      st,
		logger:     logger,
	}
}

// Resolve evaluates a message on the main enforcement path: sequential
// semantic classification first (when enabled), then the three lexical
// checks. Each later check overwrites an earlier verdict when it also
// matches, so the effective precedence is custom > advertising >
// profanity > semantic. That ordering is deliberate and must not be
// reordered; see DESIGN.md for the known severity caveat.
func (r *Resolver) Resolve(ctx context.Context, text string) Verdict {
	normalized := strings.ToLower(text)
	verdict := VerdictNone

	if r.state.SemanticEnabled() && utf8.RuneCountInString(normalized) > minSemanticLength {
		if result := r.classifier.AnalyzeSequential(ctx, normalized); result != nil {
			verdict = NeuralVerdict(result.Topic)
			r.logger.Info("Semantic classifier detected a violation", zap.String("topic", result.Topic))
		}
	}

	return r.applyLexical(normalized, verdict)
}

// ResolveExhaustive evaluates a message on the report-only analysis path:
// every enabled topic is classified concurrently and the first detected
// result wins, then the same lexical overwrite steps apply. Used by the
// admin direct-message analysis mode; it never triggers enforcement.
func (r *Resolver) ResolveExhaustive(ctx context.Context, text string) Verdict {
	normalized := strings.ToLower(text)
	verdict := VerdictNone

	if r.state.SemanticEnabled() {
		for _, result := range r.classifier.AnalyzeAll(ctx, normalized) {
			if result.Detected {
				verdict = NeuralVerdict(result.Topic)
				break
			}
		}
	}

	return r.applyLexical(normalized, verdict)
}

func (r *Resolver) applyLexical(normalized string, verdict Verdict) Verdict {
	flags := r.words.Classify(normalized)

	if r.state.ProfanityEnabled() && flags.Profanity {
		verdict = VerdictProfanity
	}
	if r.state.AdvertisingEnabled() && flags.Advertising {
		verdict = VerdictAdvertising
	}
	if flags.Custom {
		verdict = VerdictCustom
	}

	return verdict
}
