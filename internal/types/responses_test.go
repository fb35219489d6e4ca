package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDiaryResponse_ToleratesBothShapes(t *testing.T) {
	var r CreateDiaryResponse
	require.NoError(t, json.Unmarshal([]byte(`42`), &r))
	assert.Equal(t, int64(42), r.DiaryID)

	r = CreateDiaryResponse{}
	require.NoError(t, json.Unmarshal([]byte(`{"diaryId": 7}`), &r))
	assert.Equal(t, int64(7), r.DiaryID)
}

func TestMyTagsResponse_ToleratesBothShapes(t *testing.T) {
	var r MyTagsResponse
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &r))
	assert.Equal(t, []string{"a", "b"}, r.Tags)

	r = MyTagsResponse{}
	require.NoError(t, json.Unmarshal([]byte(`{"tags":["x"]}`), &r))
	assert.Equal(t, []string{"x"}, r.Tags)
}

func TestValidation(t *testing.T) {
	assert.Error(t, SaveDiaryRequest{DiaryDate: "2025-01-01"}.Validate(), "title required")
	assert.Error(t, SaveDiaryRequest{Title: "t", DiaryDate: "01/01/2025"}.Validate(), "date must be YYYY-MM-DD")
	assert.NoError(t, SaveDiaryRequest{Title: "t", DiaryDate: "2025-01-01"}.Validate())

	assert.Error(t, SendMessageRequest{UserClientMessageID: NewLocalMessageID()}.Validate(), "content required")
	assert.NoError(t, SendMessageRequest{UserContent: "hi", UserClientMessageID: NewLocalMessageID()}.Validate())

	assert.Error(t, RenameConversationRequest{}.Validate())
	assert.Error(t, GoogleSignInRequest{}.Validate())
}
