package heyso

// User-facing failure messages, kept verbatim from the product copy so every
// surface shows identical text.
const (
	MsgLoadConversationsFailed  = "대화 목록을 불러오지 못했습니다."
	MsgLoadConversationFailed   = "대화 내용을 불러오지 못했습니다."
	MsgCreateConversationFailed = "새 대화를 만들지 못했습니다."
	MsgSendMessageFailed        = "메시지를 전송하지 못했습니다."
	MsgRenameConversationFailed = "이름을 변경하지 못했습니다."
	MsgDeleteConversationFailed = "대화방 삭제에 실패했습니다."
)
