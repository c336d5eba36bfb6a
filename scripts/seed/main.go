// Package main implements a standalone seed script that populates the
// course catalog with realistic test data. It generates course rows,
// writes them as CSV batches, and pushes each batch through the catalog
// service's upload endpoint so the courses land in both the store and
// the search index.
//
// Run: go run ./scripts/seed
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// ---------------------------------------------------------------------------
// Course generation
// ---------------------------------------------------------------------------

var categories = map[string][]string{
	"Web Development":      {"JavaScript", "React", "Node.js", "CSS", "TypeScript"},
	"Database":             {"MongoDB", "PostgreSQL", "Redis", "SQL", "Data Modeling"},
	"Data Science":         {"Python", "Pandas", "Machine Learning", "Statistics", "Visualization"},
	"Backend Development":  {"Go", "Microservices", "APIs", "Kafka", "gRPC"},
	"Cloud and DevOps":     {"Docker", "Kubernetes", "AWS", "Terraform", "CI/CD"},
	"Software Engineering": {"Testing", "Architecture", "Design Patterns", "Git", "Agile"},
}

var instructors = []string{
	"Prof. David Kumar", "Dr. Sarah Chen", "Prof. John Smith", "Dr. Emily Johnson",
	"Prof. Michael Zhang", "Dr. Lisa Anderson", "Prof. Robert Martinez", "Dr. Grace Ito",
	"Prof. Amara Okafor", "Dr. Tomas Novak",
}

var skillLevels = []string{"beginner", "intermediate", "advanced"}

var durations = []string{"4 weeks", "6 weeks", "8 weeks", "10 weeks", "12 weeks"}

var titleTemplates = []string{
	"Complete %s Bootcamp",
	"Advanced %s Techniques",
	"Introduction to %s",
	"%s for Working Engineers",
	"Mastering %s",
	"Practical %s Projects",
	"%s Deep Dive",
}

type course struct {
	code        string
	title       string
	description string
	category    string
	instructor  string
	duration    string
	skillLevel  string
	tags        []string
}

func generateCourses(n int, rng *rand.Rand) []course {
	categoryNames := make([]string, 0, len(categories))
	for name := range categories {
		categoryNames = append(categoryNames, name)
	}

	courses := make([]course, 0, n)
	for i := 0; i < n; i++ {
		category := categoryNames[rng.Intn(len(categoryNames))]
		topics := categories[category]
		topic := topics[rng.Intn(len(topics))]
		secondary := topics[rng.Intn(len(topics))]

		title := fmt.Sprintf(titleTemplates[rng.Intn(len(titleTemplates))], topic)
		courses = append(courses, course{
			code:  fmt.Sprintf("SEED-%05d", i+1),
			title: title,
			description: fmt.Sprintf(
				"Hands-on course covering %s and %s, with graded projects and a capstone in %s.",
				topic, secondary, category,
			),
			category:   category,
			instructor: instructors[rng.Intn(len(instructors))],
			duration:   durations[rng.Intn(len(durations))],
			skillLevel: skillLevels[rng.Intn(len(skillLevels))],
			tags:       []string{strings.ToLower(topic), strings.ToLower(category)},
		})
	}
	return courses
}

// ---------------------------------------------------------------------------
// CSV upload
// ---------------------------------------------------------------------------

var csvHeader = []string{
	"course_id", "title", "description", "category",
	"instructor", "duration", "skill_level", "tags",
}

func buildCSV(batch []course) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range batch {
		row := []string{
			c.code, c.title, c.description, c.category,
			c.instructor, c.duration, c.skillLevel, strings.Join(c.tags, ","),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func uploadBatch(catalogURL string, csvData []byte) (int, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "seed_courses.csv")
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(csvData); err != nil {
		return 0, fmt.Errorf("write csv payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, catalogURL+"/api/v1/courses/upload", &body)
	if err != nil {
		return 0, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute upload: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upload returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Data struct {
			Uploaded int `json:"courses_uploaded"`
			Indexed  int `json:"courses_indexed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("decode upload response: %w", err)
	}
	return parsed.Data.Uploaded, nil
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	catalogURL := getEnv("CATALOG_URL", "http://localhost:8001")
	total := getEnvInt("SEED_COURSES", 500)
	batchSize := getEnvInt("SEED_BATCH_SIZE", 100)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("seeding %d courses into %s in batches of %d", total, catalogURL, batchSize)

	courses := generateCourses(total, rng)

	uploaded := 0
	for start := 0; start < len(courses); start += batchSize {
		end := start + batchSize
		if end > len(courses) {
			end = len(courses)
		}

		csvData, err := buildCSV(courses[start:end])
		if err != nil {
			log.Fatalf("build csv for batch %d-%d: %v", start, end, err)
		}

		n, err := uploadBatch(catalogURL, csvData)
		if err != nil {
			log.Fatalf("upload batch %d-%d: %v", start, end, err)
		}
		uploaded += n
		log.Printf("batch %d-%d uploaded (%d total)", start, end, uploaded)
	}

	log.Printf("done: %d courses uploaded", uploaded)
}
