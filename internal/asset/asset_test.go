package asset

import (
	"encoding/json"
	"image"
	_ "image/png"
	"testing"
)

func TestGameDataImagesExist(t *testing.T) {
	b, err := FS.ReadFile(GameData)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var data struct {
		Images []struct {
			ID   string `json:"id"`
			Path string `json:"path"`
		} `json:"images"`
	}
	if err := json.Unmarshal(b, &data); err != nil {
		t.Fatalf("game data is not valid json: %v", err)
	}
	if len(data.Images) == 0 {
		t.Fatalf("expected images in game data")
	}
	for _, img := range data.Images {
		f, err := FS.Open(img.Path)
		if err != nil {
			t.Fatalf("image %q: %v", img.ID, err)
		}
		if _, _, err := image.Decode(f); err != nil {
			t.Errorf("image %q does not decode: %v", img.ID, err)
		}
		f.Close()
	}
}
