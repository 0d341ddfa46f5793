package selection

import (
	"context"
	"sync"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/store"
	"github.com/abhisek/studyplay/internal/token"
)

func part(text, reading, pos, basic string) token.Part {
	return token.Part{Text: text, Reading: reading, POS: pos, WordType: token.WordTypeKnown, BasicForm: basic}
}

// 私は学生です。
func studentLine() []token.Part {
	return []token.Part{
		part("私", "ワタシ", "名詞,代名詞,一般,*", "私"),
		part("は", "ハ", "助詞,係助詞,*,*", "は"),
		part("学生", "ガクセイ", "名詞,一般,*,*", "学生"),
		part("です", "デス", "助動詞,*,*,*", "です"),
		part("。", "。", "記号,句点,*,*", "。"),
	}
}

// 猫に食べさせられた
func causativeLine() []token.Part {
	return []token.Part{
		part("猫", "ネコ", "名詞,一般,*,*", "猫"),
		part("に", "ニ", "助詞,格助詞,一般,*", "に"),
		part("食べ", "タベ", "動詞,自立,*,*", "食べる"),
		part("させ", "サセ", "動詞,接尾,*,*", "させる"),
		part("られ", "ラレ", "動詞,接尾,*,*", "られる"),
		part("た", "タ", "助動詞,*,*,*", "た"),
	}
}

type fakeKnowledge struct {
	mu       sync.Mutex
	statuses map[string]knowledge.Status
	calls    int
}

func (f *fakeKnowledge) Get(_ context.Context, candidates []string) knowledge.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	best := knowledge.StatusUncollected
	for _, c := range candidates {
		best = knowledge.Max(best, f.statuses[c])
	}
	return best
}

type fakeRecognition struct {
	mu    sync.Mutex
	stats map[string]store.RecognitionStats
	err   error
}

func (f *fakeRecognition) Stats(_ context.Context, lemma string) (store.RecognitionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return store.RecognitionStats{}, f.err
	}
	return f.stats[lemma], nil
}

func (f *fakeRecognition) RecordAttemptsBatch(context.Context, []store.RecognitionAttempt) error {
	return nil
}
