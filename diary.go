package heyso

import (
	"context"
	"sort"
	"time"

	"github.com/heyso/heyso-go/internal/api"
	"github.com/heyso/heyso-go/internal/cache"
	"github.com/heyso/heyso-go/internal/types"
)

// fetchAs runs a cached read: sign-in gate, keyed fetch with supersede
// handling, typed result. On failure the previous cached value (if any)
// comes back alongside the error.
func fetchAs[T any](ctx context.Context, c *Client, key cache.Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.requireSignIn(); err != nil {
		return zero, err
	}
	v, err := c.cache.Fetch(ctx, key, func(fctx context.Context) (any, error) {
		return fn(fctx)
	})
	if t, ok := v.(T); ok {
		return t, err
	}
	return zero, err
}

// Diaries re-fetches one page of diary entries.
func (c *Client) Diaries(ctx context.Context, page, size int) ([]Diary, error) {
	return fetchAs(ctx, c, keyDiaryEntries(page, size), func(fctx context.Context) ([]Diary, error) {
		return api.ListDiaries(fctx, c.http, c.baseURL, page, size)
	})
}

// DiaryDetail re-fetches a single entry.
func (c *Client) DiaryDetail(ctx context.Context, diaryID int64) (*Diary, error) {
	return fetchAs(ctx, c, keyDiaryDetail(diaryID), func(fctx context.Context) (*Diary, error) {
		return api.DiaryDetail(fctx, c.http, c.baseURL, diaryID)
	})
}

// DailyDiaries re-fetches the entries for one day (YYYY-MM-DD).
func (c *Client) DailyDiaries(ctx context.Context, day string) ([]Diary, error) {
	return fetchAs(ctx, c, keyDiaryDaily(day), func(fctx context.Context) ([]Diary, error) {
		return api.DailyDiaries(fctx, c.http, c.baseURL, day)
	})
}

// MonthlyCounts re-fetches per-day entry counts for one month (YYYY-MM).
func (c *Client) MonthlyCounts(ctx context.Context, month string) ([]MonthlyCount, error) {
	return fetchAs(ctx, c, keyMonthlyCounts(month), func(fctx context.Context) ([]MonthlyCount, error) {
		return api.MonthlyCounts(fctx, c.http, c.baseURL, month)
	})
}

// MyTags re-fetches the caller's distinct tag names.
func (c *Client) MyTags(ctx context.Context) ([]string, error) {
	return fetchAs(ctx, c, keyMyTags(), func(fctx context.Context) ([]string, error) {
		return api.MyTags(fctx, c.http, c.baseURL)
	})
}

// RecentFirst returns a copy of diaries sorted newest first. Numeric id
// order is the most stable proxy for recency the backend offers.
func RecentFirst(diaries []Diary) []Diary {
	out := make([]Diary, len(diaries))
	copy(out, diaries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DiaryID > out[j].DiaryID })
	return out
}

// SaveDiary creates (DiaryID zero) or fully replaces a diary entry and
// returns the entry's id. Tags are deduplicated before the request; the
// first page of the list is patched optimistically and every derived
// aggregate (day buckets, monthly counts, tag names, the detail) is
// invalidated because the client cannot predict the server's aggregation.
func (c *Client) SaveDiary(ctx context.Context, req SaveDiaryRequest) (int64, error) {
	if err := c.requireSignIn(); err != nil {
		return 0, err
	}
	req.Tags = req.Tags.Normalize()
	if err := req.Validate(); err != nil {
		return 0, err
	}

	listKey := keyDiaryEntries(DefaultPage, DefaultSize)
	now := time.Now()

	if req.DiaryID != 0 {
		m := cache.Mutation{
			Key: listKey,
			Apply: func(tx *cache.Tx) {
				prev, ok := tx.Value(listKey)
				if !ok {
					return
				}
				list := prev.([]types.Diary)
				next := make([]types.Diary, len(list))
				for i, d := range list {
					if d.DiaryID == req.DiaryID {
						d.Title = req.Title
						d.ContentMd = req.ContentMd
						d.DiaryDate = req.DiaryDate
						d.Tags = req.Tags
						d.UpdatedAt = now
					}
					next[i] = d
				}
				tx.Set(listKey, next)
			},
			Call: func(cctx context.Context) (any, error) {
				return api.EditDiary(cctx, c.http, c.baseURL, req)
			},
			Invalidate:         []cache.Key{keyDiaryDetail(req.DiaryID)},
			InvalidateEntities: []cache.Entity{entityDiaryDaily, entityMonthlyCounts, entityMyTags},
		}
		if _, err := c.cache.RunMutation(ctx, m); err != nil {
			return 0, err
		}
		return req.DiaryID, nil
	}

	// Placeholder id until the server issues the real one.
	tempID := -now.UnixNano()
	m := cache.Mutation{
		Key: listKey,
		Apply: func(tx *cache.Tx) {
			placeholder := types.Diary{
				DiaryID:   tempID,
				Title:     req.Title,
				ContentMd: req.ContentMd,
				DiaryDate: req.DiaryDate,
				Tags:      req.Tags,
				CreatedAt: now,
				UpdatedAt: now,
			}
			var list []types.Diary
			if prev, ok := tx.Value(listKey); ok {
				list = prev.([]types.Diary)
			}
			next := make([]types.Diary, 0, len(list)+1)
			next = append(next, placeholder)
			next = append(next, list...)
			tx.Set(listKey, next)
		},
		Call: func(cctx context.Context) (any, error) {
			return api.CreateDiary(cctx, c.http, c.baseURL, req)
		},
		Reconcile: func(tx *cache.Tx, resp any) {
			createdID := resp.(int64)
			prev, ok := tx.Value(listKey)
			if !ok {
				return
			}
			list := prev.([]types.Diary)
			next := make([]types.Diary, len(list))
			for i, d := range list {
				if d.DiaryID == tempID {
					d.DiaryID = createdID
				}
				next[i] = d
			}
			tx.Set(listKey, next)
		},
		InvalidateEntities: []cache.Entity{entityDiaryDaily, entityMonthlyCounts, entityMyTags},
	}
	resp, err := c.cache.RunMutation(ctx, m)
	if err != nil {
		return 0, err
	}
	return resp.(int64), nil
}

// DeleteDiary removes an entry: the list loses it optimistically, its detail
// key is dropped and the derived aggregates are invalidated.
func (c *Client) DeleteDiary(ctx context.Context, diaryID int64) error {
	if err := c.requireSignIn(); err != nil {
		return err
	}
	listKey := keyDiaryEntries(DefaultPage, DefaultSize)
	m := cache.Mutation{
		Key: listKey,
		Apply: func(tx *cache.Tx) {
			prev, ok := tx.Value(listKey)
			if !ok {
				return
			}
			list := prev.([]types.Diary)
			next := make([]types.Diary, 0, len(list))
			for _, d := range list {
				if d.DiaryID != diaryID {
					next = append(next, d)
				}
			}
			tx.Set(listKey, next)
		},
		Call: func(cctx context.Context) (any, error) {
			return nil, api.DeleteDiary(cctx, c.http, c.baseURL, diaryID)
		},
		Drop:               []cache.Key{keyDiaryDetail(diaryID)},
		InvalidateEntities: []cache.Entity{entityDiaryDaily, entityMonthlyCounts, entityMyTags},
	}
	_, err := c.cache.RunMutation(ctx, m)
	return err
}
