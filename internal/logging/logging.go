package logging

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

// Setup sends the standard logger to stdout and a rotating file. The
// returned writer is also used for echo's request log.
func Setup(filename string) (io.Writer, io.Closer) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	rotating := &lumberjack.Logger{
		Filename: filename,
		MaxSize:  10, // megabytes
		MaxAge:   31,
		Compress: true,
	}
	w := io.MultiWriter(os.Stdout, rotating)
	log.SetOutput(w)
	return w, rotating
}
