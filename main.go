package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"nocturne/cmd"
	"nocturne/config"
	"nocturne/scene"
	"nocturne/services"
)

func main() {
	var (
		serverMode  = flag.Bool("server", false, "run the galaxy web server")
		port        = flag.Int("port", 8080, "web server port")
		libraryRoot = flag.String("library", "", "music library root (default: configured root)")
		subsonicURL = flag.String("subsonic", "", "Subsonic/Navidrome server URL instead of a local library")
		playPath    = flag.String("play", "", "play one audio file locally and exit")
	)
	flag.Parse()

	if *serverMode {
		cmd.StartWebServer(cmd.ServerOptions{
			Port:        *port,
			LibraryRoot: *libraryRoot,
			SubsonicURL: *subsonicURL,
		})
		return
	}

	if *playPath != "" {
		playFile(*playPath)
		return
	}

	scanAndReport(*libraryRoot, *subsonicURL)
}

// scanAndReport runs a one-shot scan and prints what the galaxy would
// look like
func scanAndReport(libraryRoot, subsonicURL string) {
	var scanner services.LibraryScanner
	root := libraryRoot
	if subsonicURL != "" {
		scanner = services.NewSubsonicScanner(config.GetSubsonicUser(), config.GetSubsonicPassword())
		root = subsonicURL
	} else {
		scanner = services.NewFileScanner()
		if root == "" {
			root = config.GetLibraryRoot()
		}
	}

	fmt.Printf("Scanning %s\n", root)

	var bar *progressbar.ProgressBar
	lib, err := scanner.Scan(root, func(scanned, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "scanning")
		}
		bar.Set(scanned)
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	if bar != nil {
		bar.Finish()
	}

	s := scene.NewAssembler().Build(lib)

	fmt.Printf("\nGalaxy: %d stars, %d planets, %d moons\n",
		len(s.Stars), s.TotalAlbums, s.TotalTracks)
	fmt.Printf("Bounding radius %.1f, galaxy camera distance %.1f\n",
		s.BoundingRadius, s.GalaxyCameraDist)

	for i := range s.Stars {
		star := &s.Stars[i]
		fmt.Printf("  %-30s genre=%-12s albums=%-3d tracks=%-4d pos=(%.1f, %.1f, %.1f)\n",
			star.Name, star.Genre, len(star.Albums), star.TotalTracks,
			star.Position.X, star.Position.Y, star.Position.Z)
	}
}

// playFile plays one local audio file through the speaker until it ends
func playFile(path string) {
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("Cannot play %s: %v", path, err)
	}

	player := services.NewBeepPlayer()
	if err := player.Play(path, path, "", "", 0); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}

	for !player.AtEnd() {
		time.Sleep(200 * time.Millisecond)
	}
	player.Stop()
}
