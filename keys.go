package heyso

import (
	"strconv"

	"github.com/heyso/heyso-go/internal/cache"
)

// Query key families. Key arguments are part of the key; invalidating an
// entity covers every argument combination (prefix invalidation).
const (
	entityDiaryEntries  cache.Entity = "diaryEntries"
	entityDiaryDetail   cache.Entity = "diaryDetail"
	entityDiaryDaily    cache.Entity = "diaryDaily"
	entityMonthlyCounts cache.Entity = "monthlyDiaryCounts"
	entityMyTags        cache.Entity = "diaryMyTags"
	entityConversations cache.Entity = "aiChatConversations"
	entityConversation  cache.Entity = "aiChatConversation"
	entitySummary       cache.Entity = "aiChatSummary"
)

func keyDiaryEntries(page, size int) cache.Key {
	return cache.NewKey(entityDiaryEntries, strconv.Itoa(page), strconv.Itoa(size))
}

func keyDiaryDetail(diaryID int64) cache.Key {
	return cache.NewKey(entityDiaryDetail, strconv.FormatInt(diaryID, 10))
}

func keyDiaryDaily(day string) cache.Key {
	return cache.NewKey(entityDiaryDaily, day)
}

func keyMonthlyCounts(month string) cache.Key {
	return cache.NewKey(entityMonthlyCounts, month)
}

func keyMyTags() cache.Key {
	return cache.NewKey(entityMyTags)
}

func keyConversations(page, size int) cache.Key {
	return cache.NewKey(entityConversations, strconv.Itoa(page), strconv.Itoa(size))
}

func keyConversation(conversationID int64, limit int) cache.Key {
	return cache.NewKey(entityConversation, strconv.FormatInt(conversationID, 10), strconv.Itoa(limit))
}

func keySummary(conversationID int64) cache.Key {
	return cache.NewKey(entitySummary, strconv.FormatInt(conversationID, 10))
}
