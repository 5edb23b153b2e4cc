package views

import "projadm/internal/ui/styles"

type noticeLevel int

const (
	noticeNone noticeLevel = iota
	noticeSuccess
	noticeError
	noticeInfo
)

// notice is the status-line message shown after an operation, the TUI
// stand-in for a toast.
type notice struct {
	level noticeLevel
	text  string
}

func successNotice(text string) notice {
	return notice{level: noticeSuccess, text: text}
}

func errorNotice(text string) notice {
	return notice{level: noticeError, text: text}
}

func infoNotice(text string) notice {
	return notice{level: noticeInfo, text: text}
}

func (n notice) render(s *styles.Styles) string {
	switch n.level {
	case noticeSuccess:
		return s.NoticeSuccess.Render("✓ " + n.text)
	case noticeError:
		return s.NoticeError.Render("✗ " + n.text)
	case noticeInfo:
		return s.NoticeInfo.Render("· " + n.text)
	default:
		return ""
	}
}
