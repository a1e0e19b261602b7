// Package reply writes the short bot message shown under a saved entry.
//
// Replies pick randomly among templates for the entry's label, so unlike the
// analysis pipeline they are not deterministic unless Generator.Rand is
// seeded.
package reply

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/corey/moodlog/internal/domain/sentiment"
	"github.com/corey/moodlog/internal/ports"
)

// LowConfidence is the confidence below which a generic reply is used.
const LowConfidence = 0.3

// Fallback is returned for entries without a sentiment.
const Fallback = "작성해주셔서 감사합니다. 오늘의 감정이 기록되었어요."

// template renders the part of a reply after the emoji.
type template func(kw []string) string

// sentence joins the non-empty parts with single spaces.
func sentence(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// first formats with the first keyword when there is one, else returns alt.
func first(kw []string, format, alt string) string {
	if len(kw) > 0 {
		return fmt.Sprintf(format, kw[0])
	}
	return alt
}

// pair formats with the first two keywords when there are two, else returns alt.
func pair(kw []string, format, alt string) string {
	if len(kw) > 1 {
		return fmt.Sprintf(format, kw[0], kw[1])
	}
	return alt
}

var templates = map[ports.Label][]template{
	ports.LabelVeryPositive: {
		func(kw []string) string {
			return sentence("와! 정말 멋진 하루셨네요!", first(kw, "특히 '%s'에 대한 이야기가 인상적이에요.", ""), "이런 기분 오래 지속되길 바라요!")
		},
		func(kw []string) string {
			return sentence("너무 좋은 하루였나 봐요! 행복이 느껴져요.", pair(kw, "'%s'와 '%s'이 함께한 하루라니 완벽하네요!", ""))
		},
		func(kw []string) string {
			return sentence("정말 환상적인 하루였군요! 이런 날들이 자주 있기를 바래요.", first(kw, "'%s'를 통해 많은 기쁨을 느끼셨네요!", ""))
		},
	},
	ports.LabelPositive: {
		func(kw []string) string {
			return sentence("좋은 하루를 보내셨네요!", first(kw, "'%s'에 대해 더 이야기해주시겠어요?", "계속 이런 기분 유지하세요!"))
		},
		func(kw []string) string {
			return sentence("기분 좋은 일이 있었나 봐요.", first(kw, "'%s'가 오늘의 하이라이트였나요?", "행복한 하루 되세요!"))
		},
		func(kw []string) string {
			return sentence("오늘은 긍정적인 하루였어요!", pair(kw, "'%s'와 '%s'이 함께했네요.", ""))
		},
	},
	ports.LabelVeryNegative: {
		func(kw []string) string {
			return sentence("오늘 정말 힘든 하루를 보내셨군요.", first(kw, "'%s' 때문에 많이 힘드셨나요?", ""),
				"괜찮으세요? 더 이야기하고 싶으시면 언제든 적어주세요. 당신의 감정을 존중합니다.")
		},
	},
	ports.LabelNegative: {
		func(kw []string) string {
			return sentence("조금 힘든 하루였나 봐요.", first(kw, "'%s' 때문이신가요?", ""), "필요하면 더 이야기해주세요.")
		},
		func(kw []string) string {
			return sentence("오늘은 좋지 않은 일이 있었나 봐요.", first(kw, "'%s'에 대해 더 말씀해주시겠어요?", "힘내세요!"))
		},
		func(kw []string) string {
			return sentence("힘든 감정을 느끼셨네요.", first(kw, "'%s'가 부담스러우셨나요?", ""), "천천히 이야기해주세요.")
		},
	},
	ports.LabelNeutral: {
		func(kw []string) string {
			return sentence("평범한 하루였네요.", first(kw, "'%s'에 대해 더 이야기해주시겠어요?", "더 말씀해주시면 좋겠어요."))
		},
	},
}

// Generator builds replies. A nil Rand uses the global source, which is safe
// for concurrent use; a non-nil Rand is not.
type Generator struct {
	Rand *rand.Rand
}

func (g Generator) intN(n int) int {
	if n <= 1 {
		return 0
	}
	if g.Rand != nil {
		return g.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// Reply returns the bot message for e.
func (g Generator) Reply(e *ports.Entry) string {
	if e == nil || e.Sentiment == nil {
		return Fallback
	}
	s := e.Sentiment
	emoji := sentiment.LabelEmoji(s.Label)

	if s.Confidence < LowConfidence {
		return emoji + " 오늘의 감정을 기록했어요. 더 자세히 말씀해주시면 더 잘 이해할 수 있어요."
	}

	choices, ok := templates[s.Label]
	if !ok {
		choices = templates[ports.LabelNeutral]
	}
	return emoji + " " + choices[g.intN(len(choices))](e.Keywords)
}
