package dashboard

import "fmt"

// Language packs. Keys missing from a pack fall back to English.
var packs = map[string]map[string]string{
	"en": {
		"title":           "VIRAL RADAR PRO",
		"subtitle":        "Find what is taking off on YouTube Shorts",
		"control_panel":   "Control Panel",
		"api_key":         "YouTube API Key",
		"api_key_help":    "Your Data API v3 key",
		"api_key_server":  "Leave empty to use the server key",
		"time_range":      "Time Range",
		"keyword_ph":      "Enter a keyword, e.g. AI Story, Scary facts...",
		"scan":            "Start scan",
		"mode":            "Current mode: %s",
		"missing_key":     "Set your YouTube API key in the control panel first.",
		"missing_keyword": "Enter a search keyword.",
		"upstream":        "API connection error. Check the key or quota and try again.",
		"empty":           "No viral shorts in this time range. Try a wider range or another keyword.",
		"found":           "Scan complete! Found %d potential hits.",
		"heat":            "Heat (VPH)",
		"surging":         "Surging",
		"total_views":     "Total views: %s",
		"hours_ago":       "%.1fh ago",
		"analyze":         "Analyze",
		"back":            "Back to dashboard",
		"detail_title":    "Deep analysis",
		"watch":           "Watch on YouTube",
		"save":            "Save to watchlist",
		"saved":           "Saved to watchlist.",
		"save_failed":     "Could not save to watchlist.",
		"no_watchlist":    "Watchlist is not configured.",
		"ai_note":         "AI note",
		"window_24h":      "24 hours (latest bursts)",
		"window_48h":      "48 hours",
		"window_72h":      "72 hours (steady hits)",
		"window_week":     "1 week (long-term trends)",
		"window_month":    "1 month (monthly hits)",
		"session_expired": "That result is no longer available. Run the scan again.",
		"leave_detail":    "You are viewing a video. Go back to the dashboard to analyze another one.",
		"published":       "Published %s",
		"channel":         "Channel",
		"views":           "Views",
		"age":             "Age",
		"tier_explosive":  "Explosive",
		"tier_hot":        "Hot",
		"tier_rising":     "Rising",
	},
	"zh": {
		"title":           "⚡ VIRAL RADAR PRO",
		"subtitle":        "发现 YouTube Shorts 流量密码 | 全球爆款雷达",
		"control_panel":   "控制台 Control Panel",
		"api_key":         "YouTube API Key",
		"api_key_help":    "您的 API 密钥",
		"api_key_server":  "留空则使用服务器密钥",
		"time_range":      "时间范围 Time Range",
		"keyword_ph":      "输入关键词，例如: AI Story, Scary facts...",
		"scan":            "🚀 开始扫描",
		"mode":            "当前模式: %s",
		"missing_key":     "⚠️ 请先在左侧侧边栏设置 API Key",
		"missing_keyword": "⚠️ 请输入搜索关键词",
		"upstream":        "API 连接错误，请检查密钥或配额后重试",
		"empty":           "⚠️ 该时间段内未找到相关爆款，尝试放宽时间范围或更换关键词。",
		"found":           "🎯 扫描完成！发现 %d 个潜在爆款",
		"heat":            "🔥 热度 (VPH)",
		"surging":         "极速飙升",
		"total_views":     "👁️ 总播放: %s",
		"hours_ago":       "🕒 %.1fh前",
		"analyze":         "深度分析",
		"back":            "返回仪表盘",
		"detail_title":    "深度分析",
		"watch":           "在 YouTube 观看",
		"save":            "加入收藏",
		"saved":           "已加入收藏",
		"save_failed":     "收藏失败",
		"no_watchlist":    "未配置收藏夹",
		"ai_note":         "AI 点评",
		"window_24h":      "24小时 (最新爆发)",
		"window_48h":      "48小时",
		"window_72h":      "72小时 (稳定热门)",
		"window_week":     "一周 (长期趋势)",
		"window_month":    "一月 (月度爆款)",
		"session_expired": "该结果已失效，请重新扫描",
		"leave_detail":    "当前正在查看视频详情，请先返回看板再分析其他视频",
		"published":       "发布于 %s",
		"channel":         "频道",
		"views":           "播放",
		"age":             "发布时长",
		"tier_explosive":  "极速飙升",
		"tier_hot":        "热门",
		"tier_rising":     "稳定上升",
	},
}

// translator resolves UI strings for one language.
type translator struct {
	lang string
}

func (t translator) T(key string) string {
	if s, ok := packs[t.lang][key]; ok {
		return s
	}
	if s, ok := packs["en"][key]; ok {
		return s
	}
	return key
}

func (t translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}
