package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"messenger/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Read-only dump of the room documents in a Badger store. Opens with
// BypassLockGuard so it works while the server holds the directory lock.
func main() {
	dbPath := flag.String("db", "/tmp/messenger-badger", "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "People", "Messages", "Last Author", "Last Message", "Last Time"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var doc domain.Document
				if err := json.Unmarshal(v, &doc); err != nil {
					// Log the broken document and keep scanning
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				lastAuthor, lastContent, lastTime := "-", "-", "-"
				if n := len(doc.Messages); n > 0 {
					last := doc.Messages[n-1]
					lastAuthor = last.Author
					lastContent = last.Content
					lastTime = time.UnixMilli(last.Timecode).Format("15:04:05")
				}

				table.Append([]string{
					string(item.Key()),
					strconv.Itoa(len(doc.People)),
					strconv.Itoa(len(doc.Messages)),
					lastAuthor,
					lastContent,
					lastTime,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
