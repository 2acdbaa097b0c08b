package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"

	"nocturne/types"
)

// DefaultTrackDuration is assumed when a file's length cannot be probed.
const DefaultTrackDuration = 180.0

// audioExtensions lists the file extensions treated as music tracks
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".wma":  true,
	".opus": true,
	".aiff": true,
	".ape":  true,
	".alac": true,
	".mpc":  true,
}

// trackPrefix matches leading track numbers like "01 - " or "3. "
var trackPrefix = regexp.MustCompile(`^(\d+)[\.\-\s]+(.+)`)

// LibraryScanner builds a Library from a music directory on disk
type LibraryScanner interface {
	Scan(rootPath string, progress func(scanned, total int)) (types.Library, error)
}

// fileScanner implements LibraryScanner over the local filesystem
type fileScanner struct{}

// NewFileScanner creates a new filesystem library scanner
func NewFileScanner() LibraryScanner {
	return &fileScanner{}
}

// trackMeta is the per-file result before grouping into artists and albums
type trackMeta struct {
	title    string
	artist   string
	album    string
	genre    string
	year     int
	number   int
	duration float64
	path     string
}

// Scan walks rootPath, reads tags from every audio file and groups the
// results into the artist/album/track tree. Unreadable files fall back to
// path-derived metadata rather than failing the scan.
func (fs *fileScanner) Scan(rootPath string, progress func(scanned, total int)) (types.Library, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return types.Library{}, fmt.Errorf("library root not accessible: %w", err)
	}
	if !info.IsDir() {
		return types.Library{}, fmt.Errorf("library root %s is not a directory", rootPath)
	}

	// First pass: collect candidate audio files so progress has a total
	var paths []string
	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Error accessing path %s: %v", path, err)
			return nil // Continue walking, don't fail entire scan
		}
		if !info.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return types.Library{}, err
	}

	// Second pass: read metadata per file
	tracks := make([]trackMeta, 0, len(paths))
	for i, path := range paths {
		tracks = append(tracks, fs.extractTrackMeta(path))
		if progress != nil {
			progress(i+1, len(paths))
		}
	}

	return groupTracks(tracks), nil
}

// extractTrackMeta reads tags from one file with path-based fallbacks
func (fs *fileScanner) extractTrackMeta(path string) trackMeta {
	meta := trackMeta{path: path, duration: probeDuration(path)}
	if meta.duration <= 0 {
		meta.duration = DefaultTrackDuration
	}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: Could not open audio file %s: %v", path, err)
		applyPathFallback(&meta)
		return meta
	}
	defer file.Close()

	parsed, err := tag.ReadFrom(file)
	if err != nil {
		log.Printf("Warning: Could not parse audio metadata from %s: %v", path, err)
		applyPathFallback(&meta)
		return meta
	}

	meta.title = strings.TrimSpace(parsed.Title())
	meta.artist = strings.TrimSpace(parsed.Artist())
	meta.album = strings.TrimSpace(parsed.Album())
	meta.genre = strings.TrimSpace(parsed.Genre())
	meta.year = parsed.Year()
	meta.number, _ = parsed.Track()

	// Path fallback fills whatever the tags left blank
	applyPathFallback(&meta)
	return meta
}

// applyPathFallback derives missing fields from Artist/Album/NN - Title.ext
func applyPathFallback(meta *trackMeta) {
	parts := strings.Split(filepath.ToSlash(meta.path), "/")
	filename := filepath.Base(meta.path)

	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if matches := trackPrefix.FindStringSubmatch(title); len(matches) > 2 {
		title = matches[2]
		if meta.number == 0 {
			if n, err := strconv.Atoi(matches[1]); err == nil {
				meta.number = n
			}
		}
	}

	if meta.title == "" {
		meta.title = title
	}
	if meta.album == "" && len(parts) >= 2 {
		meta.album = parts[len(parts)-2]
	}
	if meta.artist == "" && len(parts) >= 3 {
		meta.artist = parts[len(parts)-3]
	}
	if meta.artist == "" {
		meta.artist = "Unknown Artist"
	}
	if meta.album == "" {
		meta.album = "Unknown Album"
	}
}

// probeDuration decodes just enough of a FLAC or MP3 file to learn its
// length in seconds. Other formats return 0 and get the default duration.
func probeDuration(path string) float64 {
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	default:
		return 0
	}

	file, err := os.Open(path)
	if err != nil {
		return 0
	}

	stream, format, err := decode(file)
	if err != nil {
		file.Close()
		return 0
	}
	defer stream.Close()

	if format.SampleRate <= 0 {
		return 0
	}
	return float64(stream.Len()) / float64(format.SampleRate)
}

// groupTracks folds flat track metadata into the artist/album/track tree.
// Tracks sort by number, albums by year, artists by name; each artist's
// genre is the most common genre among their tracks.
func groupTracks(tracks []trackMeta) types.Library {
	type albumAccum struct {
		year   int
		tracks []types.TrackRecord
	}
	type artistAccum struct {
		albums map[string]*albumAccum
		genres map[string]int
	}

	artists := make(map[string]*artistAccum)
	for _, t := range tracks {
		artist := artists[t.artist]
		if artist == nil {
			artist = &artistAccum{
				albums: make(map[string]*albumAccum),
				genres: make(map[string]int),
			}
			artists[t.artist] = artist
		}

		album := artist.albums[t.album]
		if album == nil {
			album = &albumAccum{}
			artist.albums[t.album] = album
		}
		if album.year == 0 && t.year != 0 {
			album.year = t.year
		}
		album.tracks = append(album.tracks, types.TrackRecord{
			Title:           t.title,
			Path:            t.path,
			TrackNumber:     t.number,
			DurationSeconds: t.duration,
			Genre:           t.genre,
		})
		if t.genre != "" {
			artist.genres[t.genre]++
		}
	}

	lib := types.Library{Artists: make([]types.ArtistRecord, 0, len(artists))}
	for name, acc := range artists {
		record := types.ArtistRecord{
			Name:   name,
			Genre:  primaryGenre(acc.genres),
			Albums: make([]types.AlbumRecord, 0, len(acc.albums)),
		}
		for albumName, album := range acc.albums {
			sort.SliceStable(album.tracks, func(i, j int) bool {
				return album.tracks[i].TrackNumber < album.tracks[j].TrackNumber
			})
			record.Albums = append(record.Albums, types.AlbumRecord{
				Name:   albumName,
				Year:   album.year,
				Tracks: album.tracks,
			})
			record.TotalTracks += len(album.tracks)
		}
		sort.SliceStable(record.Albums, func(i, j int) bool {
			return record.Albums[i].Year < record.Albums[j].Year
		})
		lib.Artists = append(lib.Artists, record)
		lib.TotalAlbums += len(record.Albums)
		lib.TotalTracks += record.TotalTracks
	}

	sort.SliceStable(lib.Artists, func(i, j int) bool {
		return lib.Artists[i].Name < lib.Artists[j].Name
	})

	return lib
}

// primaryGenre picks the most common genre, ties broken alphabetically
func primaryGenre(counts map[string]int) string {
	best := ""
	bestCount := 0
	for genre, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || genre < best)) {
			best = genre
			bestCount = count
		}
	}
	return best
}
