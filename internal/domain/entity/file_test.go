package entity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
)

func newCompletedSessionForFile() *UploadSession {
	session := newSessionWithStatus(UploadSessionStatusCompleted)
	session.FileHash = "deadbeef"
	return session
}

func TestNewFileFromSession_CopiesSessionAttributes(t *testing.T) {
	session := newCompletedSessionForFile()
	storedName := valueobject.NewStoredName(session.FileName)

	file := NewFileFromSession(session, storedName, "deadbeef")

	if file.SenderID != session.OwnerID {
		t.Error("expected SenderID to be session owner")
	}
	if file.ReceiverID != session.ReceiverID {
		t.Error("expected ReceiverID to match session")
	}
	if file.OriginalName != session.FileName {
		t.Error("expected OriginalName to match session file name")
	}
	if file.Size != session.FileSize {
		t.Errorf("expected size %d, got %d", session.FileSize, file.Size)
	}
	if file.FileHash != "deadbeef" {
		t.Errorf("expected file hash to be recorded, got %q", file.FileHash)
	}
}

func TestNewFileFromSession_NotDownloaded(t *testing.T) {
	session := newCompletedSessionForFile()
	storedName := valueobject.NewStoredName(session.FileName)

	file := NewFileFromSession(session, storedName, "")

	if file.IsDownloaded {
		t.Error("new file should not be marked downloaded")
	}
	if file.DownloadedAt != nil {
		t.Error("new file should have no download timestamp")
	}
}

func TestFile_MarkDownloaded(t *testing.T) {
	session := newCompletedSessionForFile()
	file := NewFileFromSession(session, valueobject.NewStoredName(session.FileName), "")

	file.MarkDownloaded()

	if !file.IsDownloaded {
		t.Error("expected file to be marked downloaded")
	}
	if file.DownloadedAt == nil {
		t.Error("expected DownloadedAt to be set")
	}
}

func TestFile_IsAccessibleBy_SenderAndReceiver(t *testing.T) {
	session := newCompletedSessionForFile()
	file := NewFileFromSession(session, valueobject.NewStoredName(session.FileName), "")

	if !file.IsAccessibleBy(file.SenderID) {
		t.Error("sender should access the file")
	}
	if !file.IsAccessibleBy(file.ReceiverID) {
		t.Error("receiver should access the file")
	}
	if file.IsAccessibleBy(uuid.New()) {
		t.Error("unrelated user should not access the file")
	}
}
