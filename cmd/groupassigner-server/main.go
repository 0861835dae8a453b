// groupassigner-server — HTTP wrapper around the assignment engine
//
// Exposes POST /group_assignment, accepting the program JSON and returning
// the result document.
//
// Build:
//   go build -o groupassigner-server ./cmd/groupassigner-server

package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/KotaKunori/GroupAssigner/internal/project"
	"github.com/KotaKunori/GroupAssigner/internal/server"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		configPath = flag.String("config", project.DefaultConfigPath(), "solver config TOML")
	)
	flag.Parse()

	cfg, err := project.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	srv := server.New(cfg.Settings())
	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatal(err)
	}
}
