package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
	"github.com/tgrunnagle/playing-card-gen/pkg/tts"
)

// TTSDeck returns the Tabletop Simulator export of a rendered sheet. Image
// URLs are baseURL/<name> when baseURL is set, otherwise file URLs of the
// saved artifacts. The configuration's tts.back_image replaces the rendered
// back.
func (r *Result) TTSDeck(baseURL string) (tts.DeckParams, error) {
	faces := r.Faces()
	if len(faces) != 1 {
		return tts.DeckParams{}, errors.New(errors.ErrCodeInvalidInput,
			"tts export needs a single sheet, got %d images (use the sheet layout)", len(faces))
	}
	faceURL, err := artifactURL(faces[0], baseURL)
	if err != nil {
		return tts.DeckParams{}, err
	}

	var backURL string
	switch back := r.BackArtifact(); {
	case r.Config != nil && r.Config.TTS.BackImage != "":
		backURL, err = resolveURL(r.Config.TTS.BackImage, baseURL)
	case back != nil:
		backURL, err = artifactURL(back, baseURL)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "tts export needs a back: configure back layers or tts.back_image")
	}
	if err != nil {
		return tts.DeckParams{}, err
	}

	p := tts.DeckParams{
		Name:    r.DeckName,
		Size:    r.Stats.CardCount,
		FaceURL: faceURL,
		BackURL: backURL,
		Cards:   r.Cards,
	}
	if r.Config != nil {
		p.MaxWidth = r.Config.Output.MaxWidth
	}
	return p, nil
}

func artifactURL(a *Artifact, baseURL string) (string, error) {
	if baseURL != "" {
		return joinURL(baseURL, a.Name), nil
	}
	if strings.Contains(a.Location, "://") {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"%s is stored at %s; pass a base URL the game can download it from", a.Name, a.Location)
	}
	return fileURL(a.Location)
}

// resolveURL accepts an absolute URL, a name under baseURL or a local path.
func resolveURL(ref, baseURL string) (string, error) {
	switch {
	case strings.Contains(ref, "://"):
		return ref, nil
	case baseURL != "":
		return joinURL(baseURL, ref), nil
	}
	return fileURL(ref)
}

func joinURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + url.PathEscape(name)
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
