package progression

// MaxLevel is the progression ceiling. There is no level 16; "XP to next
// level" is undefined once a user reaches it.
const MaxLevel = 15

// Cumulative XP required to hold each level, indexed by level-1. Fixed by
// product policy, ascending.
var levelThresholds = [MaxLevel]int{
	0,     // 1
	100,   // 2
	250,   // 3
	500,   // 4
	1000,  // 5
	1750,  // 6
	2750,  // 7
	4000,  // 8
	5500,  // 9
	7500,  // 10
	10000, // 11
	13000, // 12
	16500, // 13
	20500, // 14
	25000, // 15
}

var levelTitles = [MaxLevel]string{
	"New Member",
	"Member",
	"Regular",
	"Contributor",
	"Veteran",
	"Elite",
	"Champion",
	"Legend",
	"Hero",
	"Superstar",
	"Master",
	"Grandmaster",
	"Mythic",
	"Eternal",
	"GOAT",
}

// LevelFor maps cumulative XP to a level: the highest level whose threshold
// does not exceed totalXP. Pure function of the total, never of history.
func LevelFor(totalXP int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if totalXP < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// TitleFor returns the display title for a level. Out-of-range levels get the
// generic member title.
func TitleFor(level int) string {
	if level < 1 || level > MaxLevel {
		return "Member"
	}
	return levelTitles[level-1]
}

// XPToNext returns the XP gap between the given level's threshold and the
// next one. The second return is false at the ceiling, where no next level
// exists.
func XPToNext(level int) (int, bool) {
	if level < 1 || level >= MaxLevel {
		return 0, false
	}
	return levelThresholds[level] - levelThresholds[level-1], true
}

// ThresholdFor returns the cumulative XP floor of a level.
func ThresholdFor(level int) int {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}
