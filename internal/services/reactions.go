package services

import "teamchat/internal/models"

// ToggleReaction adds user to emoji's reactors, or removes them when they
// already reacted with it. Entries left without users are dropped. The input
// slice is not modified.
func ToggleReaction(reactions []models.Reaction, emoji string, user models.ReactionUser) []models.Reaction {
	out := cloneReactions(reactions)
	for i := range out {
		if out[i].Emoji != emoji {
			continue
		}
		for j := range out[i].Users {
			if out[i].Users[j].UserID == user.UserID {
				return RemoveReaction(reactions, emoji, user.UserID)
			}
		}
		out[i].Users = append(out[i].Users, user)
		return out
	}
	return append(out, models.Reaction{Emoji: emoji, Users: []models.ReactionUser{user}})
}

// RemoveReaction drops userID from emoji's reactors. It is a no-op when the
// user has not reacted with emoji.
func RemoveReaction(reactions []models.Reaction, emoji string, userID int64) []models.Reaction {
	out := make([]models.Reaction, 0, len(reactions))
	for _, r := range reactions {
		if r.Emoji != emoji {
			out = append(out, cloneReaction(r))
			continue
		}
		users := make([]models.ReactionUser, 0, len(r.Users))
		for _, u := range r.Users {
			if u.UserID != userID {
				users = append(users, u)
			}
		}
		if len(users) > 0 {
			out = append(out, models.Reaction{Emoji: r.Emoji, Users: users})
		}
	}
	return out
}

func cloneReactions(reactions []models.Reaction) []models.Reaction {
	out := make([]models.Reaction, len(reactions))
	for i, r := range reactions {
		out[i] = cloneReaction(r)
	}
	return out
}

func cloneReaction(r models.Reaction) models.Reaction {
	return models.Reaction{Emoji: r.Emoji, Users: append([]models.ReactionUser(nil), r.Users...)}
}
