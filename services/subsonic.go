package services

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"nocturne/types"
)

// Subsonic protocol constants
const (
	subsonicVersion = "1.16.1"
	subsonicClient  = "nocturne"
)

// Subsonic XML response shapes. Every endpoint wraps its payload in
// <subsonic-response>; we only map the parts we read.
type subsonicResponse struct {
	XMLName xml.Name       `xml:"subsonic-response"`
	Status  string         `xml:"status,attr"`
	Error   *subsonicError `xml:"error"`
	Artists *struct {
		Indexes []struct {
			Artists []subsonicArtist `xml:"artist"`
		} `xml:"index"`
	} `xml:"artists"`
	Artist *struct {
		Albums []subsonicAlbum `xml:"album"`
	} `xml:"artist"`
	Album *struct {
		Songs []subsonicSong `xml:"song"`
	} `xml:"album"`
}

type subsonicError struct {
	Code    int    `xml:"code,attr"`
	Message string `xml:"message,attr"`
}

type subsonicArtist struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type subsonicAlbum struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Year int    `xml:"year,attr"`
}

type subsonicSong struct {
	ID       string  `xml:"id,attr"`
	Title    string  `xml:"title,attr"`
	Track    int     `xml:"track,attr"`
	Duration float64 `xml:"duration,attr"`
	Genre    string  `xml:"genre,attr"`
}

// subsonicScanner fetches a library from a Subsonic-compatible server
// (Navidrome, Airsonic). It satisfies LibraryScanner so remote libraries
// queue through the same scan jobs as local ones; the scan root is the
// server base URL.
type subsonicScanner struct {
	user     string
	password string
	client   *http.Client
}

// NewSubsonicScanner creates a scanner that loads the library over the
// Subsonic REST API
func NewSubsonicScanner(user, password string) LibraryScanner {
	return &subsonicScanner{
		user:     user,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Scan walks the server's artists → albums → songs hierarchy. Progress is
// reported per artist since artist count is all we know up front.
func (sc *subsonicScanner) Scan(serverURL string, progress func(scanned, total int)) (types.Library, error) {
	log.Printf("Connecting to Subsonic server at %s", serverURL)

	var artistsResp subsonicResponse
	if err := sc.get(serverURL, "getArtists.view", nil, &artistsResp); err != nil {
		return types.Library{}, fmt.Errorf("failed to fetch artists: %w", err)
	}
	if artistsResp.Artists == nil {
		return types.Library{}, fmt.Errorf("server returned no artist index")
	}

	var artists []subsonicArtist
	for _, index := range artistsResp.Artists.Indexes {
		artists = append(artists, index.Artists...)
	}
	log.Printf("Found %d artists", len(artists))

	lib := types.Library{}
	for i, artist := range artists {
		if artist.ID == "" || artist.Name == "" {
			continue
		}

		record, err := sc.fetchArtist(serverURL, artist)
		if err != nil {
			log.Printf("Warning: skipping artist %s: %v", artist.Name, err)
			continue
		}
		if len(record.Albums) > 0 {
			lib.Artists = append(lib.Artists, record)
			lib.TotalAlbums += len(record.Albums)
			lib.TotalTracks += record.TotalTracks
		}

		if progress != nil {
			progress(i+1, len(artists))
		}
	}

	sort.SliceStable(lib.Artists, func(i, j int) bool {
		return lib.Artists[i].Name < lib.Artists[j].Name
	})

	log.Printf("Library: %d artists, %d albums, %d tracks",
		len(lib.Artists), lib.TotalAlbums, lib.TotalTracks)
	return lib, nil
}

// fetchArtist loads one artist's albums and tracks
func (sc *subsonicScanner) fetchArtist(serverURL string, artist subsonicArtist) (types.ArtistRecord, error) {
	var albumsResp subsonicResponse
	err := sc.get(serverURL, "getArtist.view", url.Values{"id": {artist.ID}}, &albumsResp)
	if err != nil {
		return types.ArtistRecord{}, err
	}
	if albumsResp.Artist == nil {
		return types.ArtistRecord{}, fmt.Errorf("empty artist response")
	}

	record := types.ArtistRecord{Name: artist.Name}
	genreCounts := make(map[string]int)

	for _, album := range albumsResp.Artist.Albums {
		if album.ID == "" {
			continue
		}

		var tracksResp subsonicResponse
		err := sc.get(serverURL, "getAlbum.view", url.Values{"id": {album.ID}}, &tracksResp)
		if err != nil {
			log.Printf("Warning: skipping album %s: %v", album.Name, err)
			continue
		}
		if tracksResp.Album == nil {
			continue
		}

		albumName := album.Name
		if albumName == "" {
			albumName = "Unknown Album"
		}

		albumRecord := types.AlbumRecord{Name: albumName, Year: album.Year}
		for _, song := range tracksResp.Album.Songs {
			if song.ID == "" {
				continue
			}
			title := song.Title
			if title == "" {
				title = fmt.Sprintf("Track %d", song.Track)
			}
			duration := song.Duration
			if duration <= 0 {
				duration = DefaultTrackDuration
			}
			if song.Genre != "" {
				genreCounts[song.Genre]++
			}
			albumRecord.Tracks = append(albumRecord.Tracks, types.TrackRecord{
				Title:           title,
				Path:            sc.streamURL(serverURL, song.ID),
				TrackNumber:     song.Track,
				DurationSeconds: duration,
				Genre:           song.Genre,
			})
		}

		if len(albumRecord.Tracks) == 0 {
			continue
		}
		sort.SliceStable(albumRecord.Tracks, func(i, j int) bool {
			return albumRecord.Tracks[i].TrackNumber < albumRecord.Tracks[j].TrackNumber
		})
		record.Albums = append(record.Albums, albumRecord)
		record.TotalTracks += len(albumRecord.Tracks)
	}

	sort.SliceStable(record.Albums, func(i, j int) bool {
		return record.Albums[i].Year < record.Albums[j].Year
	})
	record.Genre = primaryGenre(genreCounts)

	return record, nil
}

// get performs one Subsonic API call and decodes the XML envelope
func (sc *subsonicScanner) get(serverURL, endpoint string, extra url.Values, out *subsonicResponse) error {
	resp, err := sc.client.Get(sc.buildURL(serverURL, endpoint, extra))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("bad XML response: %w", err)
	}
	if out.Status == "failed" {
		if out.Error != nil {
			return fmt.Errorf("subsonic error %d: %s", out.Error.Code, out.Error.Message)
		}
		return fmt.Errorf("subsonic request failed")
	}
	return nil
}

// buildURL assembles a Subsonic REST URL with auth and protocol params
func (sc *subsonicScanner) buildURL(serverURL, endpoint string, extra url.Values) string {
	params := url.Values{
		"u": {sc.user},
		"p": {sc.password},
		"c": {subsonicClient},
		"v": {subsonicVersion},
		"f": {"xml"},
	}
	for key, values := range extra {
		params[key] = values
	}
	return serverURL + "/rest/" + endpoint + "?" + params.Encode()
}

// streamURL builds the playback URL for one song
func (sc *subsonicScanner) streamURL(serverURL, songID string) string {
	return sc.buildURL(serverURL, "stream.view", url.Values{
		"id":                    {songID},
		"format":                {"raw"},
		"estimateContentLength": {"true"},
	})
}
