package roast

// The message pools. Content is fixed; selection logic lives in
// selector.go. Each category carries a fallback default so selection
// never fails even if a pool is emptied.

const (
	defaultFunny        = "Still scrolling?"
	defaultMotivational = "You can do better."
	defaultRealityCheck = "Let's be real about your time."
)

// funny is the 70%-probability sarcastic pool.
var funny = []string{
	"Congrats, you've seen every meme on the internet. Twice.",
	"Your thumb is more active than you are.",
	"Still scrolling? The content doesn't get better.",
	"Fun fact: You could've learned Spanish in this time.",
	"This is literally called DOOM scrolling. The name isn't subtle.",
	"Breaking news: Nothing has changed since you last checked.",
	"The algorithm is laughing at you right now.",
	"Plot twist: All those posts are from yesterday.",
	"Imagine if you spent this time doing literally anything else.",
	"Your screen time could power a small country.",
	"Congrats, you've achieved peak brain rot. 🧠",
	"The person you're ignoring IRL misses you.",
	"This is the 4th time today. You good?",
	"Still here? The pixels aren't gonna scroll themselves. Oh wait...",
	"Fun fact: Grass exists outside.",
	"Your FYP is judging you.",
	"Achievement Unlocked: Professional Scroller 🏆",
	"This is intervention #7 today. Maybe we're onto something?",
	"The internet will still be here if you leave. Promise.",
	"Blink if you're being held hostage by your feed.",
	"Bet you forgot what you were looking for 30 minutes ago.",
	"Your battery is dying faster than your productivity.",
	"Main character energy: You're not the main character.",
	"That's 45 minutes you'll never get back. Worth it?",
	"Even your phone thinks this is excessive.",
	"Plot twist: Everyone else is also just scrolling.",
	"Congratulations, you've achieved absolutely nothing.",
	"Your brain cells are literally thanking you for stopping.",
	"The void scrolls back.",
	"Remember when you had hobbies?",
}

// motivational is the 20%-probability pool.
var motivational = []string{
	"You're better than this. Seriously.",
	"What are you avoiding right now?",
	"Real talk: How do you feel after scrolling?",
	"Is this how you want to spend the next hour?",
	"Future you is disappointed.",
	"Remember when you said you'd be productive today?",
	"The day is 1% over. Make it count.",
	"What would happen if you put your phone down?",
	"You've got one life. Is this it?",
	"Time you enjoy wasting isn't wasted... but is this enjoyable?",
	"Your goals are waiting for you.",
	"This moment could be different.",
	"You know what needs to be done.",
	"The dopamine isn't real, but your time is.",
	"Break the cycle. Right now.",
}

// realityCheck is the 10%-probability pool. Two entries carry literal
// duration placeholders ("32 minutes", "45 minutes") that the selector
// substitutes with the actual scroll duration.
var realityCheck = []string{
	`You've scrolled for 32 minutes.

In that time you could've:
• Finished a workout
• Called a friend
• Made dinner
• Read 2 chapters
• Taken a walk
• Actually accomplished something

Still worth it?`,

	`That's 45 minutes. You just:
• Watched 6 TikToks about productivity
• Did zero productive things
• See the irony?`,

	`1 hour gone. Here's what you missed:
• The sun (it's still up)
• Human interaction
• Physical movement
• Your actual goals`,

	`Let's do the math:
25 minutes × 4 times a day = 100 minutes
× 365 days = 608 hours per year

That's 25 days. Twenty-five. Days.`,

	`In the time you've scrolled this week, you could have:
• Learned to code (basics)
• Read 3 books
• Started a side project
• Actually talked to people

But here we are.`,
}

// Time-bucket pools. The late-night entries interpolate the hour.
var lateNightTemplates = []string{
	"It's %dam. Even your phone wants to sleep.",
	"Midnight doom scroll? Bold strategy.",
	"The sun gave up on you hours ago.",
	"Your circadian rhythm is crying.",
	"Nothing good happens on your phone at %dam.",
}

var morningPool = []string{
	"Morning doom scroll? Bold strategy.",
	"Starting the day scrolling. This won't end well.",
	"Imagine waking up and choosing violence (against yourself).",
	"Coffee first. Scrolling never.",
}

var lunchPool = []string{
	"Lunch break doom scroll. Classic.",
	"Scrolling through lunch. Your food is judging you.",
	"This is literally your break time. Take an actual break.",
}

var preBedPool = []string{
	"Pre-bed doom scroll. RIP your sleep schedule.",
	"Blue light before bed. Your melatonin is crying.",
	"Your sleep quality just left the chat.",
	"This is why you're tired in the morning.",
}
