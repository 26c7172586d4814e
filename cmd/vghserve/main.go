package main

import (
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vugu/vghistory/devserve"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {

	// .env first so flags can still override it
	if err := godotenv.Load(); err != nil {
		log.Println("[vghserve] No .env file found, using system environment variables")
	}
	if mode := os.Getenv(gin.EnvGinMode); mode != "" {
		gin.SetMode(mode)
	}

	dir := flag.String("dir", envOr("VGHSERVE_DIR", "."), "Directory to serve (env VGHSERVE_DIR)")
	addr := flag.String("addr", envOr("VGHSERVE_ADDR", "127.0.0.1:8844"), "Address to listen on (env VGHSERVE_ADDR)")
	index := flag.String("index", envOr("VGHSERVE_INDEX", devserve.DefaultIndex), "App shell served for unknown paths (env VGHSERVE_INDEX)")
	q := flag.Bool("q", false, "Do not log requests (quiet mode)")

	flag.Parse()

	if st, err := os.Stat(*dir); err != nil || !st.IsDir() {
		log.Fatalf("[vghserve] %q is not a directory", *dir)
	}

	s := devserve.New(devserve.Config{Dir: *dir, Index: *index, Quiet: *q})
	log.Fatal(s.Run(*addr))
}
