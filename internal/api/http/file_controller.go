package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/meetflow/internal/api/http/converter"
	"github.com/immxrtalbeast/meetflow/internal/auth"
	"github.com/immxrtalbeast/meetflow/internal/domain"
	"github.com/immxrtalbeast/meetflow/internal/service"
)

type FileController struct {
	files service.FileInteractor
}

func NewFileController(files service.FileInteractor) *FileController {
	return &FileController{files: files}
}

func (c *FileController) UploadFile(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if header.Size > domain.MaxFileSize {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	displayName := ctx.PostForm("display_name")

	src, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer src.Close()

	record, err := c.files.Upload(
		ctx.Request.Context(),
		meetingID,
		identity,
		displayName,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		src,
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "file": converter.FileToAPI(record)})
}

func (c *FileController) ListFiles(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	meetingID, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	files, err := c.files.List(ctx.Request.Context(), meetingID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "files": converter.FilesToAPI(files)})
}

func (c *FileController) DownloadFile(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	fileID, err := uuid.Parse(ctx.Param("fileID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	url, err := c.files.DownloadURL(ctx.Request.Context(), fileID, identity)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

func (c *FileController) DeleteFile(ctx *gin.Context) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	fileID, err := uuid.Parse(ctx.Param("fileID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err := c.files.Delete(ctx.Request.Context(), fileID, identity); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
