package radar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_viral/internal/engine"
)

// Heat tiers shown on cards and in the detail view.
const (
	TierExplosive = "explosive" // VPH > 2000
	TierHot       = "hot"       // VPH >= 1000
	TierRising    = "rising"
)

// TierOf classifies a heat score.
func TierOf(vph int64) string {
	switch {
	case vph > 2000:
		return TierExplosive
	case vph >= 1000:
		return TierHot
	default:
		return TierRising
	}
}

// Insight is the detail-view analysis of one video. It is a fixed narrative
// filled from the video's own fields; AINote is only set when an LLM is configured.
type Insight struct {
	Tier    string
	Summary string
	Points  []string
	AINote  string
}

type insightPack struct {
	tiers   map[string]string
	summary string
	points  []string
	prompt  string
}

var insightPacks = map[string]insightPack{
	"en": {
		tiers: map[string]string{
			TierExplosive: "Explosive",
			TierHot:       "Hot",
			TierRising:    "Rising",
		},
		summary: "%[1]s short: %[2]d views per hour across %.1[3]f hours since upload.",
		points: []string{
			"Velocity: %[2]d views/hour, %[4]s total views so far.",
			"Channel: %[5]s published it on %[6]s; check whether the channel is small, which signals the topic rather than the audience is carrying it.",
			"Hook: the title \"%[7]s\" is what viewers clicked; reuse its opening promise within the first two seconds.",
			"Format: keep it vertical and under 60 seconds, loop the last frame into the first.",
			"Timing: a %[1]s video is still climbing, publish a variation while the trend window is open.",
		},
		prompt: "You analyse YouTube Shorts. In at most 3 sentences explain why this short is spreading and suggest one concrete angle for a follow-up. Title: %q. Channel: %q. Views: %d. Hours since upload: %.1f. Views per hour: %d.",
	},
	"zh": {
		tiers: map[string]string{
			TierExplosive: "极速飙升",
			TierHot:       "热门",
			TierRising:    "稳定上升",
		},
		summary: "%[1]s：发布 %.1[3]f 小时，平均每小时 %[2]d 次播放。",
		points: []string{
			"流量速度：每小时 %[2]d 次播放，总播放 %[4]s。",
			"频道：%[5]s 于 %[6]s 发布；如果频道体量小，说明是选题本身在带流量。",
			"钩子：标题「%[7]s」是观众点击的原因，前两秒复用同样的承诺。",
			"形式：竖屏、60 秒以内，结尾画面与开头衔接形成循环。",
			"时机：%[1]s 的视频仍在上升期，趁热度窗口发布同类变体。",
		},
		prompt: "你是 YouTube Shorts 分析师。用不超过 3 句话解释这个短视频为什么在传播，并给出一个具体的跟进角度。标题：%q。频道：%q。播放：%d。发布小时数：%.1f。每小时播放：%d。",
	},
}

func packFor(lang string) insightPack {
	if p, ok := insightPacks[lang]; ok {
		return p
	}
	return insightPacks["en"]
}

// BuildInsight fills the narrative template for v in the given language.
func BuildInsight(v engine.Video, lang string) Insight {
	p := packFor(lang)
	tier := TierOf(v.HeatScore)
	args := []any{
		p.tiers[tier],
		v.HeatScore,
		engine.RoundHours(v.AgeHours),
		engine.FormatThousands(v.ViewCount),
		v.ChannelName,
		v.PublishedAt.Format("2006-01-02"),
		v.Title,
	}
	in := Insight{
		Tier:    tier,
		Summary: fmt.Sprintf(p.summary, args...),
	}
	for _, f := range p.points {
		if !strings.Contains(f, "%") {
			in.Points = append(in.Points, f)
			continue
		}
		in.Points = append(in.Points, fmt.Sprintf(f, args...))
	}
	return in
}

// Enrich asks the LLM for a short note about v. On failure the insight is returned unchanged.
func Enrich(ctx context.Context, complete engine.CompleteFunc, v engine.Video, in Insight, lang string) Insight {
	if complete == nil {
		return in
	}
	engine.IncrInsightLLMCalls()
	prompt := fmt.Sprintf(packFor(lang).prompt, v.Title, v.ChannelName, v.ViewCount, engine.RoundHours(v.AgeHours), v.HeatScore)
	note, err := complete(ctx, prompt)
	if err != nil {
		engine.IncrInsightLLMErrors()
		slog.Warn("insight: llm failed", slog.String("video", v.ID), slog.Any("error", err))
		return in
	}
	in.AINote = engine.TruncateAtWord(strings.TrimSpace(note), 600)
	return in
}
