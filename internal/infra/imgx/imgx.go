package imgx

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // 注册 PNG 解码器（海报不一定总是 jpeg）
)

// PosterJPEG 校验并规范化海报图片，输出固定为 JPEG（poster.jpg）。
//
// 约束：
// - 输入允许是 JPEG/PNG（依赖标准库解码器）；无法解码即报错（例如拿到了 HTML 错误页）
// - 输入已是 JPEG 时原样返回，不做二次有损压缩
// - 其他格式先绘制到不透明 RGBA 画布再编码
func PosterJPEG(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("海报为空")
	}

	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	r := img.Bounds()
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, errors.New("图片尺寸无效")
	}
	if format == "jpeg" {
		return b, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Over)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
