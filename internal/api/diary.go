package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heyso/heyso-go/internal/types"
)

// ListDiaries retrieves one page of diary entries.
func ListDiaries(ctx context.Context, hc HTTPClient, baseURL string, page, size int) ([]types.Diary, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	res, err := Do(ctx, hc, baseURL, http.MethodGet, "/api/diary", q, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("list diaries", res)
	}
	var lr types.DiaryListResponse
	if err := res.Decode(&lr); err != nil {
		return nil, err
	}
	return lr.Diaries, nil
}

// DiaryDetail retrieves a single entry by id.
func DiaryDetail(ctx context.Context, hc HTTPClient, baseURL string, diaryID int64) (*types.Diary, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodGet, fmt.Sprintf("/api/diary/%d", diaryID), nil, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("diary detail", res)
	}
	var d types.Diary
	if err := res.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DailyDiaries retrieves the entries written on one day (day = YYYY-MM-DD).
func DailyDiaries(ctx context.Context, hc HTTPClient, baseURL, day string) ([]types.Diary, error) {
	q := url.Values{}
	q.Set("day", day)
	res, err := Do(ctx, hc, baseURL, http.MethodGet, "/api/diary/daily", q, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("daily diaries", res)
	}
	var lr types.DiaryListResponse
	if err := res.Decode(&lr); err != nil {
		return nil, err
	}
	return lr.Diaries, nil
}

// MonthlyCounts retrieves per-day entry counts for one month (YYYY-MM).
func MonthlyCounts(ctx context.Context, hc HTTPClient, baseURL, month string) ([]types.MonthlyCount, error) {
	q := url.Values{}
	q.Set("month", month)
	res, err := Do(ctx, hc, baseURL, http.MethodGet, "/api/diary/monthly", q, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("monthly counts", res)
	}
	var counts []types.MonthlyCount
	if err := res.Decode(&counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// MyTags retrieves the caller's distinct tag names.
func MyTags(ctx context.Context, hc HTTPClient, baseURL string) ([]string, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodGet, "/api/diary/mytags", nil, nil)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("my tags", res)
	}
	var mt types.MyTagsResponse
	if err := res.Decode(&mt); err != nil {
		return nil, err
	}
	return mt.Tags, nil
}

// CreateDiary posts a new entry and returns the server-issued id.
func CreateDiary(ctx context.Context, hc HTTPClient, baseURL string, req types.SaveDiaryRequest) (int64, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, "/api/diary", nil, req)
	if err != nil {
		return 0, err
	}
	if !res.OK {
		return 0, httpError("create diary", res)
	}
	var cr types.CreateDiaryResponse
	if err := res.Decode(&cr); err != nil {
		return 0, err
	}
	return cr.DiaryID, nil
}

// EditDiary fully replaces an existing entry.
func EditDiary(ctx context.Context, hc HTTPClient, baseURL string, req types.SaveDiaryRequest) (*types.Diary, error) {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, fmt.Sprintf("/api/diary/%d/edit", req.DiaryID), nil, req)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, httpError("edit diary", res)
	}
	var d types.Diary
	if res.Data != nil {
		if err := res.Decode(&d); err != nil {
			return nil, err
		}
	}
	if d.DiaryID == 0 {
		d.DiaryID = req.DiaryID
	}
	return &d, nil
}

// DeleteDiary removes an entry.
func DeleteDiary(ctx context.Context, hc HTTPClient, baseURL string, diaryID int64) error {
	res, err := Do(ctx, hc, baseURL, http.MethodPost, fmt.Sprintf("/api/diary/%d/delete", diaryID), nil, nil)
	if err != nil {
		return err
	}
	if !res.OK {
		return httpError("delete diary", res)
	}
	return nil
}
