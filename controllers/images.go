package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/541v4r54n/Web-Security-Experiment/database"
	"github.com/541v4r54n/Web-Security-Experiment/middleware"
	"github.com/541v4r54n/Web-Security-Experiment/models"
	"github.com/541v4r54n/Web-Security-Experiment/security"
	"github.com/541v4r54n/Web-Security-Experiment/services"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".webp": true,
}

const (
	defaultPerPage = 12
	maxPerPage     = 100
)

// randomName returns an unguessable server-side filename; client-supplied
// names are never used for storage.
func randomName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

func uploadPath(name string) string      { return filepath.Join(cfg.UploadDir, name) }
func watermarkedPath(name string) string { return filepath.Join(cfg.WatermarkedDir, name) }

// removeFile deletes a stored file best-effort: failures are logged, never
// propagated to the request.
func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("file cleanup failed", "path", path, "err", err)
	}
}

func removeImageFiles(img *models.Image) {
	removeFile(uploadPath(img.StoredName))
	removeFile(watermarkedPath(img.WatermarkedName))
}

// removeUserImageFiles drops the stored files of every image a user owns,
// ahead of the database cascade that removes the rows.
func removeUserImageFiles(userID uint) {
	var imgs []models.Image
	database.DB.Where("user_id = ?", userID).Find(&imgs)
	for i := range imgs {
		removeImageFiles(&imgs[i])
	}
}

// ownedImages builds the owner-scoped base query. Ownership is part of the
// predicate itself so no code path can look a row up first and forget the
// check afterwards.
func ownedImages(userID uint, q string) *gorm.DB {
	tx := database.DB.Model(&models.Image{}).Where("user_id = ?", userID)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(original_name) LIKE ? OR LOWER(watermark_text) LIKE ?", like, like)
	}
	return tx
}

// lookupOwnedImage resolves an id for the current user. A missing row and a
// row owned by someone else are indistinguishable to the caller.
func lookupOwnedImage(c *gin.Context, user *models.User) (*models.Image, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err == nil {
		var img models.Image
		if database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).First(&img).Error == nil {
			return &img, true
		}
	}
	security.AddFlash(c, "warning", "Image not found")
	redirect(c, "/images")
	c.Abort()
	return nil, false
}

type imagePage struct {
	Images  []models.Image
	Query   string
	Page    int
	Pages   int
	PerPage int
	Total   int64
}

func listImages(c *gin.Context, user *models.User) imagePage {
	q := strings.TrimSpace(c.Query("q"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	tx := ownedImages(user.ID, q)

	var total int64
	tx.Count(&total)

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	var imgs []models.Image
	tx.Order("id DESC").Limit(perPage).Offset((page - 1) * perPage).Find(&imgs)

	return imagePage{Images: imgs, Query: q, Page: page, Pages: pages, PerPage: perPage, Total: total}
}

func ImagesPage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := listImages(c, user)
	render(c, "images.html", gin.H{
		"Images": p.Images, "Query": p.Query,
		"Page": p.Page, "Pages": p.Pages, "PerPage": p.PerPage, "Total": p.Total,
		"HasPrev": p.Page > 1, "HasNext": p.Page < p.Pages,
		"PrevPage": p.Page - 1, "NextPage": p.Page + 1,
	})
}

func APIImages(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := listImages(c, user)
	c.JSON(http.StatusOK, gin.H{
		"images": p.Images, "total": p.Total,
		"page": p.Page, "pages": p.Pages, "per_page": p.PerPage,
	})
}

func ImageUpload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("image")
	if err != nil || file.Filename == "" {
		security.AddFlash(c, "warning", "Choose an image file first")
		redirect(c, "/images")
		return
	}

	watermarkText := strings.TrimSpace(c.PostForm("watermark_text"))

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		security.AddFlash(c, "danger", "Only png/jpg/jpeg/bmp/webp files are supported")
		redirect(c, "/images")
		return
	}

	storedName := randomName(ext)
	watermarkedName := randomName(".jpg")
	srcPath := uploadPath(storedName)
	dstPath := watermarkedPath(watermarkedName)

	if err := c.SaveUploadedFile(file, srcPath); err != nil {
		slog.Error("saving upload failed", "err", err)
		security.AddFlash(c, "danger", "Upload failed, please retry")
		redirect(c, "/images")
		return
	}

	if err := services.AddTextWatermark(srcPath, dstPath, watermarkText); err != nil {
		slog.Warn("watermark rendering failed", "file", file.Filename, "err", err)
		removeFile(srcPath)
		security.AddFlash(c, "danger", "Watermark rendering failed, try another image")
		redirect(c, "/images")
		return
	}

	img := models.Image{
		UserID:          user.ID,
		OriginalName:    filepath.Base(file.Filename),
		StoredName:      storedName,
		WatermarkedName: watermarkedName,
		WatermarkText:   watermarkText,
	}
	if err := database.DB.Create(&img).Error; err != nil {
		slog.Error("saving image record failed", "err", err)
		removeFile(srcPath)
		removeFile(dstPath)
		security.AddFlash(c, "danger", "Upload failed, please retry")
		redirect(c, "/images")
		return
	}

	services.LogAction(c, &user.ID, "image_upload", img.OriginalName)
	security.AddFlash(c, "success", "Uploaded and watermarked")
	redirect(c, "/images")
}

func ImageDetail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	img, ok := lookupOwnedImage(c, user)
	if !ok {
		return
	}
	render(c, "image_detail.html", gin.H{"Image": img})
}

func ImagePreview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	img, ok := lookupOwnedImage(c, user)
	if !ok {
		return
	}
	serveImageFile(c, watermarkedPath(img.WatermarkedName))
}

func ImageOriginal(c *gin.Context) {
	user := middleware.CurrentUser(c)
	img, ok := lookupOwnedImage(c, user)
	if !ok {
		return
	}
	serveImageFile(c, uploadPath(img.StoredName))
}

func ImageDownload(c *gin.Context) {
	user := middleware.CurrentUser(c)
	img, ok := lookupOwnedImage(c, user)
	if !ok {
		return
	}

	path := watermarkedPath(img.WatermarkedName)
	if _, err := os.Stat(path); err != nil {
		security.AddFlash(c, "danger", "File is missing, re-upload to regenerate")
		redirect(c, "/images")
		return
	}

	stem := strings.TrimSuffix(img.OriginalName, filepath.Ext(img.OriginalName))
	c.FileAttachment(path, "watermarked-"+stem+".jpg")
}

func serveImageFile(c *gin.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		security.AddFlash(c, "danger", "File is missing, re-upload to regenerate")
		redirect(c, "/images")
		return
	}
	c.File(path)
}

func ImageDelete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	img, ok := lookupOwnedImage(c, user)
	if !ok {
		return
	}

	removeImageFiles(img)
	if err := database.DB.Delete(&models.Image{}, img.ID).Error; err != nil {
		security.AddFlash(c, "danger", "Deleting image failed")
		redirect(c, "/images")
		return
	}

	services.LogAction(c, &user.ID, "image_delete", img.OriginalName)
	security.AddFlash(c, "info", "Image deleted")
	redirect(c, "/images")
}

// ImagesBulk deletes or regenerates a set of images. Requested ids are
// resolved against the caller's own rows first; ids that don't exist or
// belong to someone else are silently dropped.
func ImagesBulk(c *gin.Context) {
	user := middleware.CurrentUser(c)
	action := c.PostForm("action")

	var ids []uint
	for _, s := range c.PostFormArray("ids") {
		if id, err := strconv.ParseUint(s, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}

	var imgs []models.Image
	if len(ids) > 0 {
		database.DB.Where("user_id = ? AND id IN ?", user.ID, ids).Find(&imgs)
	}

	switch action {
	case "delete":
		bulkDelete(c, user, imgs)
	case "regenerate":
		bulkRegenerate(c, user, imgs)
	default:
		security.AddFlash(c, "warning", "Unknown bulk action")
		redirect(c, "/images")
	}
}

func bulkDelete(c *gin.Context, user *models.User, imgs []models.Image) {
	deleted := 0
	for i := range imgs {
		removeImageFiles(&imgs[i])
		if err := database.DB.Delete(&models.Image{}, imgs[i].ID).Error; err != nil {
			slog.Error("bulk delete failed", "image_id", imgs[i].ID, "err", err)
			continue
		}
		deleted++
	}

	services.LogAction(c, &user.ID, "image_bulk_delete", fmt.Sprintf("count=%d", deleted))
	security.AddFlash(c, "info", fmt.Sprintf("Deleted %d images", deleted))
	redirect(c, "/images")
}

// bulkRegenerate re-renders the watermarked derivative from the stored
// original. The old derivative is removed only after the new one has been
// written and the record updated, so the record never points at a deleted
// file.
func bulkRegenerate(c *gin.Context, user *models.User, imgs []models.Image) {
	newText := strings.TrimSpace(c.PostForm("new_text"))

	ok, failed := 0, 0
	for i := range imgs {
		img := &imgs[i]

		srcPath := uploadPath(img.StoredName)
		if _, err := os.Stat(srcPath); err != nil {
			failed++
			continue
		}

		text := img.WatermarkText
		if newText != "" {
			text = newText
		}

		newName := randomName(".jpg")
		if err := services.AddTextWatermark(srcPath, watermarkedPath(newName), text); err != nil {
			slog.Warn("regenerate rendering failed", "image_id", img.ID, "err", err)
			failed++
			continue
		}

		updates := map[string]any{"watermarked_name": newName}
		if newText != "" {
			updates["watermark_text"] = newText
		}
		oldName := img.WatermarkedName
		if err := database.DB.Model(img).Updates(updates).Error; err != nil {
			slog.Error("regenerate update failed", "image_id", img.ID, "err", err)
			removeFile(watermarkedPath(newName))
			failed++
			continue
		}

		removeFile(watermarkedPath(oldName))
		ok++
	}

	services.LogAction(c, &user.ID, "image_bulk_regenerate", fmt.Sprintf("ok=%d failed=%d", ok, failed))
	category := "success"
	if failed > 0 {
		category = "warning"
	}
	security.AddFlash(c, category, fmt.Sprintf("Regenerated %d images, %d failed", ok, failed))
	redirect(c, "/images")
}
