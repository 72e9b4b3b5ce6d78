package imgx

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestPosterJPEG_PNGIsReencoded(t *testing.T) {
	const (
		w = 60
		h = 90
	)
	// 透明 PNG：转换后应铺白底。
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, color.NRGBA{0, 0, 0, 0})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png 失败：%v", err)
	}

	out, err := PosterJPEG(buf.Bytes())
	if err != nil {
		t.Fatalf("PosterJPEG 失败：%v", err)
	}
	got, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("输出不是 JPEG：%v", err)
	}
	gb := got.Bounds()
	if gb.Dx() != w || gb.Dy() != h {
		t.Fatalf("尺寸不符合预期：got=%dx%d want=%dx%d", gb.Dx(), gb.Dy(), w, h)
	}
	c := color.RGBAModel.Convert(got.At(w/2, h/2)).(color.RGBA)
	if c.R < 240 || c.G < 240 || c.B < 240 {
		t.Fatalf("透明区域应为白色，实际=%v", c)
	}
}

func TestPosterJPEG_JPEGPassthrough(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 6)), nil); err != nil {
		t.Fatalf("encode jpeg 失败：%v", err)
	}
	out, err := PosterJPEG(buf.Bytes())
	if err != nil {
		t.Fatalf("PosterJPEG 失败：%v", err)
	}
	if !bytes.Equal(out, buf.Bytes()) {
		t.Fatalf("JPEG 输入应原样返回")
	}
}

func TestPosterJPEG_Invalid(t *testing.T) {
	if _, err := PosterJPEG(nil); err == nil {
		t.Fatalf("期望空输入返回错误")
	}
	if _, err := PosterJPEG([]byte("<html>503</html>")); err == nil {
		t.Fatalf("期望非图片返回错误")
	}
}
