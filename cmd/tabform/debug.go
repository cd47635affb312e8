package main

import (
	"io"
	"log"
	"os"

	"github.com/helmutkemper/tabform/internal/util"
)

// InitLog sets up the debug log system for tabform if it has been enabled
// by the -debug flag or at compile time.
func InitLog() {
	if util.Debug == "ON" {
		f, err := os.OpenFile("log.txt", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening file: %v", err)
		}

		log.SetOutput(f)
		log.Println("tabform started")
	} else {
		log.SetOutput(io.Discard)
	}
}
