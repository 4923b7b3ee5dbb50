// Command groobi highlights the rows that changed between the two newest
// snapshot sheets of an Excel workbook.
package main

func main() {
	execute()
}
