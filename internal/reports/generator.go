package reports

import (
	"bytes"
	"fmt"

	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders a decoded plan into a printable PDF.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GeneratePlanPDF(plan *plans.Plan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, plan.Title())
	pdf.Ln(12)

	switch plan.Kind {
	case plans.KindWorkout:
		g.drawWorkout(pdf, plan.Workout)
	case plans.KindNutrition:
		g.drawNutrition(pdf, plan.Nutrition)
	case plans.KindWeekly:
		g.drawWeekly(pdf, plan.Weekly)
	default:
		return nil, fmt.Errorf("unknown plan kind %q", plan.Kind)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) drawWorkout(pdf *gofpdf.Fpdf, workout *plans.WorkoutPlan) {
	if workout.Focus != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Focus: %s", workout.Focus))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 7, "Exercise", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Sets", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Reps", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Minutes", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, exercise := range workout.Exercises {
		pdf.CellFormat(80, 7, exercise.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, zeroDash(exercise.Sets), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, zeroDash(exercise.Reps), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, zeroDash(exercise.DurationMin), "1", 1, "C", false, 0, "")
		if exercise.Notes != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(160, 6, "  "+exercise.Notes, "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
		}
	}
}

func (g *Generator) drawNutrition(pdf *gofpdf.Fpdf, nutrition *plans.NutritionPlan) {
	if nutrition.TargetKcal > 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Target: %d kcal", nutrition.TargetKcal))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(60, 7, "Meal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Slot", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "Kcal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "P (g)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "F (g)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, "C (g)", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, meal := range nutrition.Meals {
		pdf.CellFormat(60, 7, meal.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, meal.Slot, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, zeroDash(meal.Kcal), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, zeroDash(meal.ProteinG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, zeroDash(meal.FatG), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, zeroDash(meal.CarbsG), "1", 1, "C", false, 0, "")
	}
}

func (g *Generator) drawWeekly(pdf *gofpdf.Fpdf, weekly *plans.WeeklyPlan) {
	for _, day := range weekly.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, fmt.Sprintf("Day %d", day.DayIndex+1))
		pdf.Ln(10)

		if day.Workout != nil {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 7, "Workout: "+day.Workout.Title)
			pdf.Ln(8)
			g.drawWorkout(pdf, day.Workout)
			pdf.Ln(4)
		}
		if day.Nutrition != nil {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 7, "Nutrition: "+day.Nutrition.Title)
			pdf.Ln(8)
			g.drawNutrition(pdf, day.Nutrition)
			pdf.Ln(4)
		}
		if day.Workout == nil && day.Nutrition == nil {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 6, "Rest day")
			pdf.Ln(8)
		}
	}
}

func zeroDash(val int) string {
	if val == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", val)
}
