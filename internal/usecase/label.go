package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultLabelSize = 256

// AssetLabelContent is what the QR code on a printed label encodes.
func (u Usecase) AssetLabelContent(id int) string {
	base := strings.TrimRight(u.publicBaseURL, "/")
	if base == "" {
		return "asset:" + strconv.Itoa(id)
	}
	return base + "/assets/" + strconv.Itoa(id)
}

// GetAssetLabel renders a PNG QR code for an existing asset.
func (u Usecase) GetAssetLabel(ctx context.Context, id int, size int) ([]byte, error) {
	if _, err := u.repo.GetAssetByID(ctx, id); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultLabelSize
	}
	return qrcode.Encode(u.AssetLabelContent(id), qrcode.Medium, size)
}
