// Package catalog holds the fixed PojokCurhat questionnaire: ten ordered
// multiple-choice questions defined at build time and immutable at runtime.
package catalog

// Option is one selectable answer for a question. Value is the stable
// machine key, Label the display text, Description an optional hint.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is one catalog entry. Order is dense and unique, starting at 1,
// and matches declaration order.
type Question struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Options []Option `json:"options"`
}

var questions = []Question{
	{
		ID:    "gender",
		Title: "Jenis Kelamin",
		Order: 1,
		Options: []Option{
			{Value: "male", Label: "Laki-laki", Description: "Jenis kelamin laki-laki"},
			{Value: "female", Label: "Perempuan", Description: "Jenis kelamin perempuan"},
		},
	},
	{
		ID:    "age",
		Title: "Umur Anda berapa?",
		Order: 2,
		Options: []Option{
			{Value: "10-12", Label: "10-12 tahun", Description: "Usia sekolah dasar"},
			{Value: "13-15", Label: "13-15 tahun", Description: "Usia sekolah menengah pertama"},
			{Value: "16-18", Label: "16-18 tahun", Description: "Usia sekolah menengah atas"},
			{Value: "19-21", Label: "19-21 tahun", Description: "Usia mahasiswa"},
			{Value: "22-25", Label: "22-25 tahun", Description: "Usia dewasa muda"},
			{Value: "26-30", Label: "26-30 tahun", Description: "Usia dewasa"},
			{Value: "31+", Label: "31+ tahun", Description: "Usia dewasa matang"},
		},
	},
	{
		ID:    "bullying",
		Title: "Seberapa sering Anda melihat perilaku perundungan di lingkungan Anda?",
		Order: 3,
		Options: []Option{
			{Value: "never", Label: "Tidak Pernah", Description: "Saya tidak pernah melihat perilaku perundungan"},
			{Value: "rarely", Label: "Jarang (1-2 kali dalam 6 bulan)", Description: "Sesekali melihat, tapi tidak sering terjadi"},
			{Value: "sometimes", Label: "Kadang-kadang (1-2 kali per bulan)", Description: "Terjadi beberapa kali dalam sebulan"},
			{Value: "often", Label: "Sering (1-2 kali per minggu)", Description: "Hampir setiap minggu melihat kejadian"},
			{Value: "very_often", Label: "Sangat Sering (hampir setiap hari)", Description: "Hampir setiap hari melihat perilaku perundungan"},
		},
	},
	{
		ID:    "hate_speech",
		Title: "Bagaimana dampak ujaran kasar terhadap kenyamanan lingkungan sosial Anda?",
		Order: 4,
		Options: []Option{
			{Value: "no_impact", Label: "Tidak Ada Dampak", Description: "Saya tidak merasa terganggu sama sekali"},
			{Value: "slight_impact", Label: "Dampak Kecil (sedikit mengganggu)", Description: "Sedikit mengganggu tapi masih bisa diabaikan"},
			{Value: "moderate_impact", Label: "Dampak Sedang (cukup mengganggu)", Description: "Cukup mengganggu dan membuat tidak nyaman"},
			{Value: "high_impact", Label: "Dampak Besar (sangat mengganggu)", Description: "Sangat mengganggu dan membuat lingkungan tidak kondusif"},
			{Value: "severe_impact", Label: "Dampak Sangat Besar (merusak suasana)", Description: "Merusak suasana dan membuat lingkungan toxic"},
		},
	},
	{
		ID:    "gossip",
		Title: "Seberapa sering Anda mendengar atau melihat perilaku ghibah (membicarakan keburukan orang lain)?",
		Order: 5,
		Options: []Option{
			{Value: "never", Label: "Tidak Pernah", Description: "Lingkungan saya bebas dari ghibah"},
			{Value: "rarely", Label: "Jarang (sesekali)", Description: "Sesekali terjadi dalam situasi tertentu"},
			{Value: "sometimes", Label: "Kadang-kadang (beberapa kali per bulan)", Description: "Beberapa kali dalam sebulan"},
			{Value: "often", Label: "Sering (hampir setiap minggu)", Description: "Hampir setiap minggu mendengar ghibah"},
			{Value: "very_often", Label: "Sangat Sering (setiap hari)", Description: "Ghibah sudah menjadi hal yang sangat umum"},
		},
	},
	{
		ID:    "pornography",
		Title: "Seberapa mudah akses konten pornografi bagi remaja di lingkungan Anda?",
		Order: 6,
		Options: []Option{
			{Value: "very_difficult", Label: "Sangat Sulit (hampir tidak mungkin)", Description: "Hampir tidak mungkin mengakses konten tersebut"},
			{Value: "difficult", Label: "Sulit (butuh usaha khusus)", Description: "Butuh usaha khusus untuk mengakses"},
			{Value: "moderate", Label: "Sedang (cukup mudah jika dicari)", Description: "Cukup mudah jika memang dicari"},
			{Value: "easy", Label: "Mudah (mudah ditemukan)", Description: "Mudah ditemukan tanpa usaha khusus"},
			{Value: "very_easy", Label: "Sangat Mudah (tersedia dimana-mana)", Description: "Tersedia dimana-mana dan mudah diakses"},
		},
	},
	{
		ID:    "social_media",
		Title: "Seberapa sering Anda melihat konten negatif (hate speech, cyberbullying) di media sosial?",
		Order: 7,
		Options: []Option{
			{Value: "never", Label: "Tidak Pernah", Description: "Feed media sosial saya bersih dari konten negatif"},
			{Value: "rarely", Label: "Jarang (1-2 kali per bulan)", Description: "Sesekali muncul di timeline"},
			{Value: "sometimes", Label: "Kadang-kadang (1-2 kali per minggu)", Description: "Beberapa kali seminggu melihat konten negatif"},
			{Value: "often", Label: "Sering (beberapa kali per minggu)", Description: "Sering muncul di feed media sosial"},
			{Value: "very_often", Label: "Sangat Sering (hampir setiap hari)", Description: "Hampir setiap hari melihat konten negatif"},
		},
	},
	{
		ID:    "family_communication",
		Title: "Bagaimana kondisi komunikasi dalam keluarga Anda terkait pembahasan nilai-nilai moral?",
		Order: 8,
		Options: []Option{
			{Value: "very_good", Label: "Sangat Baik (sering diskusi terbuka)", Description: "Keluarga sering membahas nilai moral secara terbuka"},
			{Value: "good", Label: "Baik (sesekali dibahas)", Description: "Sesekali membahas nilai-nilai moral"},
			{Value: "fair", Label: "Cukup (jarang dibahas)", Description: "Jarang membahas topik nilai moral"},
			{Value: "poor", Label: "Kurang (hampir tidak pernah)", Description: "Hampir tidak pernah membahas nilai moral"},
			{Value: "very_poor", Label: "Sangat Kurang (tidak pernah dibahas)", Description: "Tidak pernah membahas nilai-nilai moral"},
		},
	},
	{
		ID:    "social_impact",
		Title: "Bagaimana pengaruh perilaku negatif tersebut terhadap kepercayaan dan kenyamanan dalam interaksi sosial Anda?",
		Order: 9,
		Options: []Option{
			{Value: "no_influence", Label: "Tidak Berpengaruh", Description: "Tidak mempengaruhi kepercayaan sosial saya"},
			{Value: "slight_influence", Label: "Sedikit Berpengaruh", Description: "Sedikit mempengaruhi cara berinteraksi"},
			{Value: "moderate_influence", Label: "Cukup Berpengaruh", Description: "Cukup mempengaruhi kepercayaan sosial"},
			{Value: "high_influence", Label: "Sangat Berpengaruh", Description: "Sangat mempengaruhi kenyamanan berinteraksi"},
			{Value: "destructive", Label: "Merusak Kepercayaan Sosial", Description: "Merusak kepercayaan dan kenyamanan sosial"},
		},
	},
	{
		ID:    "solution",
		Title: "Menurut Anda, apa solusi paling efektif untuk mengatasi masalah penurunan akhlak remaja ini?",
		Order: 10,
		Options: []Option{
			{Value: "character_education", Label: "Pendidikan Karakter di Sekolah", Description: "Memperkuat pendidikan akhlak di sekolah"},
			{Value: "community_empowerment", Label: "Pemberdayaan dan Pengawasan Masyarakat", Description: "Melibatkan komunitas dalam pengawasan dan pembinaan"},
			{Value: "strict_regulation", Label: "Regulasi dan Sanksi yang Lebih Ketat", Description: "Membuat aturan dan sanksi yang lebih tegas"},
			{Value: "technology_control", Label: "Kontrol Teknologi dan Media Digital", Description: "Mengatur akses konten negatif di media digital"},
			{Value: "holistic_approach", Label: "Pendekatan Holistik (kombinasi semua solusi)", Description: "Kombinasi semua solusi di atas untuk hasil optimal"},
		},
	},
}

var questionIndex = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, len(questions))
	for i, q := range questions {
		idx[q.ID] = i
	}
	return idx
}

// Questions returns the catalog in canonical order. The returned slice is a
// copy; callers may not mutate the catalog.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Find returns the question with the given id.
func Find(id string) (Question, bool) {
	i, ok := questionIndex[id]
	if !ok {
		return Question{}, false
	}
	return questions[i], true
}

// Size returns the number of questions a complete submission must cover.
func Size() int {
	return len(questions)
}

// FindOption returns the option with the given value within a question.
func FindOption(questionID, value string) (Option, bool) {
	q, ok := Find(questionID)
	if !ok {
		return Option{}, false
	}
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}
