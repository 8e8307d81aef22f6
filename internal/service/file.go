package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"school-service/internal/apperror"
)

// uploadPrefix roots every object key issued by this service.
const uploadPrefix = "school_uploads"

// UploadSigner is the object-store surface the file service needs: issue a
// short-lived signed upload URL for a key, and compute the public URL of an
// uploaded object.
type UploadSigner interface {
	PresignUpload(ctx context.Context, key string) (string, error)
	PublicURL(key string) string
}

// FileService issues signed upload URLs. It never stores the resulting path;
// callers persist it if they need to reference the file later.
type FileService struct {
	signer UploadSigner
}

func NewFileService(signer UploadSigner) *FileService {
	return &FileService{signer: signer}
}

// SignedUploadURL builds a collision-resistant object key under the school's
// directory and asks the store to presign an upload for it. userID is part of
// the contract for audit logging by callers; it does not shape the key.
func (s *FileService) SignedUploadURL(ctx context.Context, schoolID, userID, fileType, originalFileName string) (signedURL, fullPath string, err error) {
	ext := strings.TrimPrefix(filepath.Ext(originalFileName), ".")
	if ext == "" {
		return "", "", apperror.New("Invalid file name: Missing extension.", http.StatusBadRequest, apperror.CodeInvalidInput)
	}

	fullPath = fmt.Sprintf("%s/%s/%s/%s.%s", uploadPrefix, schoolID, fileType, uuid.NewString(), ext)

	signedURL, err = s.signer.PresignUpload(ctx, fullPath)
	if err != nil {
		return "", "", apperror.WithDetails("Failed to generate signed upload URL.", http.StatusInternalServerError, "STORAGE_UPLOAD_ERROR", err.Error())
	}
	return signedURL, fullPath, nil
}

// PublicURL computes the public URL for an uploaded object path.
func (s *FileService) PublicURL(filePath string) string {
	return s.signer.PublicURL(filePath)
}
