package platform

import "hash/fnv"

// 各领域的内容形式、主题与话题标签基础库。
// 平台端点不可用时用它合成趋势榜，保证规划流程不因趋势源断供而停摆。

var shortVideoContentTypes = map[string][]string{
	"weddings":  {"venue_tour", "dress_reveal", "proposal_story", "wedding_dance", "diy_decor"},
	"fitness":   {"workout_routine", "before_after", "meal_prep", "form_check", "challenge"},
	"travel":    {"destination_guide", "packing_tips", "hidden_gem", "travel_hack", "scenic_view"},
	"food":      {"recipe", "restaurant_review", "cooking_hack", "taste_test", "food_asmr"},
	"beauty":    {"makeup_tutorial", "skincare_routine", "product_review", "transformation", "hack"},
	"fashion":   {"outfit_ideas", "styling_tips", "haul", "trend_alert", "thrift_flip"},
	"tech":      {"unboxing", "review", "comparison", "tutorial", "tech_news"},
	"gaming":    {"gameplay", "review", "tips_tricks", "reaction", "montage"},
	"education": {"explainer", "fact", "how_to", "study_tips", "book_review"},
	"business":  {"business_tip", "success_story", "productivity_hack", "side_hustle", "interview"},
}

var photoContentTypes = map[string][]string{
	"weddings":  {"carousel", "single_image", "reel"},
	"fitness":   {"reel", "carousel", "single_image"},
	"travel":    {"carousel", "single_image", "reel"},
	"food":      {"single_image", "carousel", "reel"},
	"beauty":    {"reel", "carousel", "single_image"},
	"fashion":   {"single_image", "carousel", "reel"},
	"tech":      {"carousel", "single_image", "reel"},
	"gaming":    {"reel", "single_image", "carousel"},
	"education": {"carousel", "reel", "single_image"},
	"business":  {"carousel", "single_image", "reel"},
}

var nicheThemes = map[string][]string{
	"weddings":  {"romantic", "elegant", "budget_friendly", "diy", "traditional", "modern", "seasonal"},
	"fitness":   {"strength", "cardio", "flexibility", "nutrition", "motivation", "recovery", "beginner"},
	"travel":    {"adventure", "luxury", "budget", "solo", "family", "cultural", "foodie"},
	"food":      {"healthy", "comfort", "quick", "gourmet", "vegan", "dessert", "breakfast"},
	"beauty":    {"natural", "glam", "everyday", "special_occasion", "affordable", "luxury", "seasonal"},
	"fashion":   {"casual", "formal", "streetwear", "vintage", "minimalist", "seasonal", "sustainable"},
	"tech":      {"innovation", "comparison", "budget", "premium", "productivity", "smart_home"},
	"gaming":    {"strategy", "action", "rpg", "multiplayer", "mobile", "console", "retro"},
	"education": {"study_tips", "career_advice", "language_learning", "science", "history", "math"},
	"business":  {"entrepreneurship", "marketing", "finance", "leadership", "startup", "remote_work"},
}

var nicheHashtags = map[string][]string{
	"weddings":  {"#weddingday", "#bridetobe", "#weddingplanning", "#weddingdress", "#weddingphotography"},
	"fitness":   {"#fitnessmotivation", "#workout", "#gym", "#healthylifestyle", "#fitfam"},
	"travel":    {"#travelphotography", "#wanderlust", "#travelgram", "#adventure", "#exploremore"},
	"food":      {"#foodie", "#homemade", "#cooking", "#foodphotography", "#instafood"},
	"beauty":    {"#makeup", "#skincare", "#beauty", "#makeuptutorial", "#glam"},
	"fashion":   {"#ootd", "#style", "#fashionista", "#outfitinspo", "#fashionstyle"},
	"tech":      {"#technology", "#gadgets", "#innovation", "#techreview", "#newtech"},
	"gaming":    {"#gamer", "#gaming", "#videogames", "#gamingcommunity", "#esports"},
	"education": {"#learning", "#studytips", "#studentlife", "#education", "#knowledge"},
	"business":  {"#entrepreneur", "#business", "#success", "#marketing", "#smallbusiness"},
}

var genericContentTypes = []string{"tutorial", "tips", "showcase", "transformation", "review"}
var genericThemes = []string{"trending", "viral", "popular", "educational", "entertaining"}
var genericHashtags = []string{"#trending", "#viral", "#foryou", "#fyp", "#popular"}

// ContentTypesFor 领域不在库中时退回通用形式
func ContentTypesFor(platform, niche string) []string {
	var table map[string][]string
	if platform == "photo" {
		table = photoContentTypes
	} else {
		table = shortVideoContentTypes
	}
	if types, ok := table[niche]; ok {
		return types
	}
	if platform == "photo" {
		return []string{"single_image", "carousel", "reel"}
	}
	return genericContentTypes
}

// ThemesFor 领域主题列表
func ThemesFor(niche string) []string {
	if themes, ok := nicheThemes[niche]; ok {
		return themes
	}
	return genericThemes
}

// HashtagsFor 领域话题标签列表
func HashtagsFor(niche string) []string {
	if tags, ok := nicheHashtags[niche]; ok {
		return tags
	}
	return genericHashtags
}

// synthesizeRank 离线模式下由内置库合成趋势榜。
// 分数由 (平台, 领域, 组合) 哈希决定，同一输入得到稳定的榜单。
func synthesizeRank(platform, niche string, limit int) []TrendSignal {
	types := ContentTypesFor(platform, niche)
	themes := ThemesFor(niche)
	tags := HashtagsFor(niche)

	signals := make([]TrendSignal, 0, limit)
	for _, ct := range types {
		for _, theme := range themes {
			if len(signals) >= limit {
				return signals
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(platform + "/" + niche + "/" + ct + "/" + theme))
			score := 0.2 + 0.8*float64(h.Sum32()%1000)/1000.0

			hashtags := append([]string{"#" + niche, "#" + theme}, tags...)
			if len(hashtags) > 5 {
				hashtags = hashtags[:5]
			}
			signals = append(signals, TrendSignal{
				ContentType: ct,
				Theme:       theme,
				Hashtags:    hashtags,
				Score:       score,
			})
		}
	}
	return signals
}
