package render

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"time"

	"Cadence/internal/model"
	"Cadence/internal/pkg/consts"
	"Cadence/internal/pkg/minio"

	"github.com/disintegration/imaging"
)

// 各平台画布尺寸
var canvasSizes = map[string]image.Point{
	model.PlatformShortVideo: {X: 1080, Y: 1920},
	model.PlatformPhoto:      {X: 1080, Y: 1080},
}

// UploadFunc 素材上传函数，返回对象键
type UploadFunc func(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)

// Renderer 占位素材渲染器：按主题合成底图并上传到对象存储。
// 真实素材生产由外部流水线负责，这里保证每条计划在提交前都有可用素材。
type Renderer struct {
	upload UploadFunc
}

func NewRenderer() *Renderer {
	return &Renderer{upload: minio.UploadFile}
}

func NewRendererWithUpload(upload UploadFunc) *Renderer {
	return &Renderer{upload: upload}
}

// Render 渲染并上传单条记录的占位素材，返回对象键
func (r *Renderer) Render(ctx context.Context, rec *model.PostRecord) (string, error) {
	img := compose(rec.Platform, rec.Theme)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode media: %w", err)
	}

	objectName := fmt.Sprintf("media/%s/%s/%s.jpg", rec.Platform, time.Now().UTC().Format("20060102"), rec.ID)
	key, err := r.upload(ctx, objectName, &buf, int64(buf.Len()), consts.MimeJPEG)
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	return key, nil
}

// compose 合成占位图：主题哈希决定主色，叠加横向色带做区分
func compose(platformName, theme string) image.Image {
	size, ok := canvasSizes[platformName]
	if !ok {
		size = image.Point{X: 1080, Y: 1080}
	}

	base, accent := themePalette(theme)
	img := imaging.New(size.X, size.Y, base)

	bandHeight := size.Y / 5
	band := imaging.New(size.X, bandHeight, accent)
	img = imaging.Paste(img, band, image.Pt(0, size.Y/2-bandHeight/2))

	return imaging.Blur(img, 1.5)
}

// themePalette 由主题哈希派生稳定配色，同一主题的素材观感一致
func themePalette(theme string) (color.NRGBA, color.NRGBA) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(theme))
	seed := h.Sum32()

	base := color.NRGBA{
		R: uint8(60 + seed%140),
		G: uint8(60 + (seed>>8)%140),
		B: uint8(60 + (seed>>16)%140),
		A: 255,
	}
	accent := color.NRGBA{
		R: 255 - base.R,
		G: 255 - base.G,
		B: 255 - base.B,
		A: 255,
	}
	return base, accent
}
