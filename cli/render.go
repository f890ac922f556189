package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/viant/detect/schema"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetRowLine(false)
	return table
}

func confidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func renderDetection(w io.Writer, detection *schema.Detection) {
	fmt.Fprintf(w, "Detection %v\n", detection.ID)
	fmt.Fprintf(w, "File:      %v\n", detection.Filename)
	if detection.AnnotatedURL != nil {
		fmt.Fprintf(w, "Annotated: %v\n", *detection.AnnotatedURL)
	}
	fmt.Fprintf(w, "Model:     %v (%v)\n", detection.ModelVersion, detection.PodID)
	fmt.Fprintf(w, "Objects:   %v, avg confidence %v\n", detection.TotalObjects, confidence(detection.AvgConf))
	table := newTable(w, "Class", "Confidence", "X", "Y", "W", "H")
	for _, item := range detection.Items {
		table.Append([]string{
			item.Class,
			confidence(item.Confidence),
			strconv.Itoa(item.X),
			strconv.Itoa(item.Y),
			strconv.Itoa(item.W),
			strconv.Itoa(item.H),
		})
	}
	table.Render()
}

func renderResults(w io.Writer, detections []*schema.Detection) {
	if len(detections) == 0 {
		fmt.Fprintln(w, "No detections.")
		return
	}
	table := newTable(w, "ID", "Created", "Filename", "Objects", "Avg Conf")
	for _, detection := range detections {
		table.Append([]string{
			detection.ID,
			detection.CreatedAt.Local().Format(time.DateTime),
			detection.Filename,
			strconv.Itoa(detection.TotalObjects),
			confidence(detection.AvgConf),
		})
	}
	table.Render()
}

func renderSummary(w io.Writer, summary *schema.Summary) {
	fmt.Fprintf(w, "Last %v days: %v images, %v objects, avg confidence %v\n",
		summary.RangeDays, summary.TotalImages, summary.TotalObjects, confidence(summary.AvgConf))
	if len(summary.Series) > 0 {
		table := newTable(w, "Date", "Images", "Objects", "Avg Conf")
		for _, point := range summary.Series {
			table.Append([]string{point.Date, strconv.Itoa(point.Images), strconv.Itoa(point.Objects), confidence(point.AvgConf)})
		}
		table.Render()
	}
	if len(summary.ByClass) > 0 {
		table := newTable(w, "Class", "Count")
		for _, class := range summary.ByClass {
			table.Append([]string{class.Class, strconv.Itoa(class.Count)})
		}
		table.Render()
	}
}
