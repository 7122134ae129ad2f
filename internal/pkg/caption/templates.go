package caption

// 模板库按 平台 -> 内容形式 归置，占位符 {theme} / {Theme} 在生成时填充。
// 找不到对应形式时退回 general 组。

var captionTemplates = map[string]map[string][]string{
	"general": {
		"general": {
			"Exploring the world of {theme}! What's your favorite part?",
			"Let's talk about {theme} today! Share your thoughts below.",
			"{Theme} inspiration for your day!",
			"The beauty of {theme} never ceases to amaze!",
			"Sharing some {theme} magic with you today!",
		},
	},
	"short_video": {
		"general": {
			"Check out this {theme} content!",
			"{Theme} vibes only! Who else loves this?",
			"POV: You're obsessed with {theme}",
			"When {theme} is life... Can you relate?",
			"This {theme} hack will change your life!",
		},
		"tutorial": {
			"How to master {theme} in 3 easy steps!",
			"{Theme} tutorial you didn't know you needed!",
			"Learn this {theme} trick in seconds!",
			"The easiest way to level up your {theme} game!",
		},
		"tips": {
			"5 {theme} tips that actually work!",
			"{Theme} secrets professionals don't want you to know!",
			"Save this {theme} tip for later!",
			"Game-changing {theme} tips!",
		},
		"showcase": {
			"Showing off my favorite {theme} finds!",
			"{Theme} showcase that will inspire you!",
			"The best {theme} I've ever seen!",
			"Rate this {theme} 1-10!",
		},
	},
	"photo": {
		"general": {
			"Bringing you the best of {theme} today. Double tap if you agree!",
			"{Theme} moments worth saving. Which one is your favorite?",
			"A little {theme} inspiration for your feed.",
			"Swipe through for some serious {theme} goals!",
		},
		"carousel": {
			"Swipe for a full dose of {theme} inspiration!",
			"{Theme} ideas, one swipe at a time. Save this for later!",
			"10 slides of pure {theme} goodness. Which is your pick?",
		},
		"single_image": {
			"One frame, all the {theme} feels.",
			"{Theme} perfection captured in a single shot.",
			"Sometimes one {theme} moment says it all.",
		},
		"reel": {
			"{Theme} in motion! Watch till the end.",
			"A quick hit of {theme} to brighten your scroll.",
			"You'll want to watch this {theme} reel twice!",
		},
	},
}

var callToActions = map[string][]string{
	"short_video": {
		"Follow for more!",
		"Drop a comment below!",
		"Share with a friend!",
	},
	"photo": {
		"Save this post for later!",
		"Tag someone who needs to see this!",
		"Let us know in the comments!",
	},
}
