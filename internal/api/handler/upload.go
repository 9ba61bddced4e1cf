package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/dorama_go_server/config"
	"github.com/qs3c/dorama_go_server/internal/pkg/response"
)

const defaultMaxUploadSize = 5 << 20 // 5MB

// readUpload 校验并读取 multipart 表单里的 file 字段。
// 大小与扩展名限制优先取配置，配置缺省时回退到 fallbackExts。
// 校验失败时已写好响应，调用方直接 return 即可。
func readUpload(c *gin.Context, cfg *config.UploadConfig, fallbackExts []string) ([]byte, string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "请选择文件")
		return nil, "", false
	}

	maxSize := int64(defaultMaxUploadSize)
	if cfg != nil && cfg.MaxSize > 0 {
		maxSize = cfg.MaxSize
	}
	if file.Size > maxSize {
		response.ParamError(c, "文件过大")
		return nil, "", false
	}

	allowed := fallbackExts
	if cfg != nil && len(cfg.AllowedExtensions) > 0 {
		allowed = cfg.AllowedExtensions
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	ok := false
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			ok = true
			break
		}
	}
	if !ok {
		response.ParamError(c, "不支持的文件格式")
		return nil, "", false
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return nil, "", false
	}

	return data, ext, true
}
