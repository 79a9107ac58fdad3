package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	line = strings.TrimSuffix(line, "\n")
	_, err := s.buf.WriteString("# " + line + "\r\n")
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteCSV streams the ledger as CSV with a short comment preamble.
func WriteCSV(w io.Writer, doc Document) error {
	r := doc.Report
	s := newCSVStreamer(w)
	preamble := []string{
		fmt.Sprintf("Customer: %s (%s)", r.CustomerName, r.CustomerID),
		fmt.Sprintf("Period: %s to %s", r.StartDate, r.EndDate),
	}
	for _, line := range preamble {
		if err := s.writeComment(line); err != nil {
			return err
		}
	}
	if err := s.writeRow(doc.header()); err != nil {
		return err
	}
	for _, row := range doc.rows() {
		if err := s.writeRow(row); err != nil {
			return err
		}
	}
	return s.Flush()
}
