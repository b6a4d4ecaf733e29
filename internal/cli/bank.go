package cli

import "scrollkeeper-service/internal/domain"

// defaultBanks provides a built-in question bank; swap the loader for the
// Postgres-backed one in production.
func defaultBanks(bankID string) map[string]domain.Bank {
	return map[string]domain.Bank{
		bankID: {
			ID: bankID,
			Questions: []domain.Question{
				// quiz: Torah
				{ID: "torah-1", Text: "Who led the Israelites out of Egypt?", Answer: "Moses", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Torah", Reference: "Exodus 3"},
				{ID: "torah-2", Text: "How many days did it rain during the great flood?", Answer: "40", Policy: domain.MatchExact, Keywords: []string{"forty"}, Tier: domain.TierEasy, Category: "Torah", Reference: "Genesis 7:12"},
				{ID: "torah-3", Text: "What did God create on the first day?", Answer: "Light", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Torah", Reference: "Genesis 1:3"},
				{ID: "torah-4", Text: "On which mountain did Moses receive the commandments?", Answer: "Mount Sinai", Policy: domain.MatchExact, Keywords: []string{"sinai", "horeb"}, Tier: domain.TierMedium, Category: "Torah", Reference: "Exodus 19"},
				{ID: "torah-5", Text: "Who was sold into slavery by his brothers?", Answer: "Joseph", Policy: domain.MatchExact, Tier: domain.TierMedium, Category: "Torah", Reference: "Genesis 37"},
				{ID: "torah-6", Text: "Describe the covenant sign God gave Noah after the flood.", Answer: "A rainbow in the clouds", Policy: domain.MatchFuzzy, Keywords: []string{"rainbow", "clouds"}, Tier: domain.TierHard, Category: "Torah", Reference: "Genesis 9:13"},

				// quiz: Prophets
				{ID: "prophets-1", Text: "Which prophet was swallowed by a great fish?", Answer: "Jonah", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Prophets", Reference: "Jonah 1:17"},
				{ID: "prophets-2", Text: "Who was thrown into the lions' den?", Answer: "Daniel", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Prophets", Reference: "Daniel 6"},
				{ID: "prophets-3", Text: "Which prophet anointed David as king?", Answer: "Samuel", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Prophets", Reference: "1 Samuel 16"},
				{ID: "prophets-4", Text: "Which prophet challenged the prophets of Baal on Mount Carmel?", Answer: "Elijah", Policy: domain.MatchExact, Tier: domain.TierMedium, Category: "Prophets", Reference: "1 Kings 18"},
				{ID: "prophets-5", Text: "Who saw a valley of dry bones come to life?", Answer: "Ezekiel", Policy: domain.MatchExact, Tier: domain.TierMedium, Category: "Prophets", Reference: "Ezekiel 37"},
				{ID: "prophets-6", Text: "Describe Isaiah's vision in the temple.", Answer: "The Lord on a throne, attended by seraphim crying holy", Policy: domain.MatchFuzzy, Keywords: []string{"throne", "seraphim", "holy"}, Tier: domain.TierHard, Category: "Prophets", Reference: "Isaiah 6"},

				// quiz: Gospels
				{ID: "gospels-1", Text: "In which town was Jesus born?", Answer: "Bethlehem", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Gospels", Reference: "Matthew 2:1"},
				{ID: "gospels-2", Text: "How many disciples did Jesus choose?", Answer: "12", Policy: domain.MatchExact, Keywords: []string{"twelve"}, Tier: domain.TierEasy, Category: "Gospels", Reference: "Mark 3:14"},
				{ID: "gospels-3", Text: "Who baptized Jesus in the Jordan?", Answer: "John the Baptist", Policy: domain.MatchExact, Keywords: []string{"john"}, Tier: domain.TierMedium, Category: "Gospels", Reference: "Matthew 3"},
				{ID: "gospels-4", Text: "Tell the parable of the lost sheep in your own words.", Answer: "A shepherd leaves ninety-nine sheep to find the one that wandered", Policy: domain.MatchFuzzy, Keywords: []string{"shepherd", "ninety-nine", "one"}, Tier: domain.TierHard, Category: "Gospels", Reference: "Luke 15"},

				// quest: Hall of Names
				{ID: "names-1", Text: "Which name means 'father of many nations'?", Answer: "Abraham", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Names", Reference: "Genesis 17:5", Hints: []string{"He left Ur at God's call.", "His name was changed from Abram."}},
				{ID: "names-2", Text: "Who wrestled with God and was renamed Israel?", Answer: "Jacob", Policy: domain.MatchExact, Tier: domain.TierEasy, Category: "Names", Reference: "Genesis 32:28", Hints: []string{"He was a twin.", "He dreamed of a ladder to heaven."}},
				{ID: "names-3", Text: "Which queen saved her people from Haman's plot?", Answer: "Esther", Policy: domain.MatchExact, Tier: domain.TierMedium, Category: "Names", Reference: "Esther 7", Hints: []string{"Her Hebrew name was Hadassah."}},

				// quest: Hall of Scrolls
				{ID: "scrolls-1", Text: "What happened when the walls of Jericho fell?", Answer: "The people shouted, trumpets sounded, and the walls collapsed", Policy: domain.MatchFuzzy, Keywords: []string{"shout", "trumpet", "walls"}, Tier: domain.TierMedium, Category: "Scrolls", Reference: "Joshua 6", Hints: []string{"The army marched for seven days."}},
				{ID: "scrolls-2", Text: "Recount how David defeated Goliath.", Answer: "With a sling and a stone, trusting the Lord", Policy: domain.MatchFuzzy, Keywords: []string{"sling", "stone"}, Tier: domain.TierMedium, Category: "Scrolls", Reference: "1 Samuel 17", Hints: []string{"He refused Saul's armor."}},
				{ID: "scrolls-3", Text: "What did Solomon ask of God at Gibeon?", Answer: "Wisdom, a discerning heart to govern the people", Policy: domain.MatchFuzzy, Keywords: []string{"wisdom", "heart"}, Tier: domain.TierHard, Category: "Scrolls", Reference: "1 Kings 3", Hints: []string{"God offered him anything he wished."}},

				// quest: Hall of Echoes
				{ID: "echoes-1", Text: "What did the voice from the whirlwind ask Job?", Answer: "Where were you when I laid the foundations of the earth", Policy: domain.MatchFuzzy, Keywords: []string{"foundations", "earth"}, Tier: domain.TierHard, Category: "Echoes", Reference: "Job 38", Hints: []string{"The question concerns creation itself."}},
				{ID: "echoes-2", Text: "What echoes through the final psalm?", Answer: "Let everything that has breath praise the Lord", Policy: domain.MatchFuzzy, Keywords: []string{"breath", "praise"}, Tier: domain.TierHard, Category: "Echoes", Reference: "Psalm 150", Hints: []string{"Every instrument joins in."}},
				{ID: "echoes-3", Text: "Which words open the book of Ecclesiastes?", Answer: "Vanity of vanities, all is vanity", Policy: domain.MatchFuzzy, Keywords: []string{"vanity"}, Tier: domain.TierHard, Category: "Echoes", Reference: "Ecclesiastes 1:2", Hints: []string{"The Teacher speaks of breath and vapor."}},
			},
			Halls: []domain.Hall{
				{Type: "names", Name: "Hall of Names", Category: "Names", Policy: domain.MatchExact, Limit: 3},
				{Type: "scrolls", Name: "Hall of Scrolls", Category: "Scrolls", Policy: domain.MatchFuzzy, Limit: 3},
				{Type: "echoes", Name: "Hall of Echoes", Category: "Echoes", Policy: domain.MatchFuzzy, Limit: 2},
			},
		},
	}
}
