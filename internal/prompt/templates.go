package prompt

// Prompt templates for the six analysis steps. Each template has exactly one
// %s slot for the (already windowed) context text and ends with an explicit
// JSON-only output instruction. Keys in the requested schemas are what the
// scoring and comparison layers read, so they must stay stable.

const jsonOnlyRule = `KURALLAR:
- SADECE geçerli bir JSON nesnesi döndür, başka hiçbir metin ekleme.
- Belgede bulunmayan bilgiyi uydurma; bilinmeyen alanlar için boş string veya boş liste kullan.`

const riskTemplate = `Sen deneyimli bir ihale ve sözleşme risk uzmanısın. Aşağıdaki ihale şartnamesini incele ve riskleri çıkar.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "toplam_risk_skoru": 0-100 arası sayı,
  "riskler": [
    {
      "kategori": "mali | hukuki | teknik | operasyonel",
      "aciklama": "riskin kısa açıklaması",
      "seviye": "KRİTİK | YÜKSEK | ORTA | DÜŞÜK",
      "oneri": "riske karşı önerilen aksiyon"
    }
  ],
  "genel_degerlendirme": "bir-iki cümlelik genel değerlendirme"
}

` + jsonOnlyRule + `

ŞARTNAME:
%s`

const documentsTemplate = `Sen bir ihale dosyası hazırlama uzmanısın. Aşağıdaki şartnamede teklif için istenen belgeleri çıkar.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "belgeler": [
    {
      "ad": "belgenin adı",
      "zorunlu": true/false,
      "aciklama": "varsa ek koşul veya format"
    }
  ]
}

` + jsonOnlyRule + `

ŞARTNAME:
%s`

const penaltiesTemplate = `Sen bir sözleşme hukuku uzmanısın. Aşağıdaki şartnamedeki ceza ve yaptırım maddelerini çıkar.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "cezalar": [
    {
      "tur": "gecikme | eksik iş | personel | diğer",
      "oran": "ceza oranı veya tutarı (ör. %%0,1/gün)",
      "aciklama": "cezanın uygulama koşulu"
    }
  ],
  "toplam_ceza_siniri": "varsa toplam ceza üst sınırı"
}

` + jsonOnlyRule + `

ŞARTNAME:
%s`

const financialTemplate = `Sen bir ihale mali analiz uzmanısın. Aşağıdaki şartnamenin mali koşullarını özetle.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "yaklasik_maliyet": "yaklaşık maliyet / sözleşme bedeli",
  "gecici_teminat": "geçici teminat oranı veya tutarı",
  "kesin_teminat": "kesin teminat oranı veya tutarı",
  "odeme_kosullari": "hakediş ve ödeme koşullarının özeti",
  "fiyat_farki": "fiyat farkı verilip verilmediği"
}

` + jsonOnlyRule + `

ŞARTNAME:
%s`

const timelineTemplate = `Sen bir proje planlama uzmanısın. Aşağıdaki şartnamedeki süre ve tarih bilgilerini çıkar.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "is_suresi": "işin süresi (ör. 180 gün)",
  "ise_baslama": "işe başlama koşulu veya tarihi",
  "teslim_tarihi": "teslim veya bitiş tarihi",
  "onemli_tarihler": [
    {"ad": "tarihin adı", "tarih": "tarih veya süre"}
  ]
}

` + jsonOnlyRule + `

ŞARTNAME:
%s`

const executiveTemplate = `Sen üst yönetime rapor hazırlayan bir ihale danışmanısın. Aşağıda şartname metni ile önceki analiz adımlarının çıktıları var. Bunları birleştirerek bir yönetici özeti hazırla.

Şu şemaya uygun TEK bir JSON nesnesi döndür:
{
  "ozet": "ihalenin bir paragraflık özeti",
  "one_cikan_riskler": ["en kritik 3-5 risk"],
  "firsatlar": ["varsa öne çıkan fırsatlar"],
  "teklif_tavsiyesi": "ihaleye girilmeli mi, hangi koşullarla",
  "sonuc": "tek cümlelik nihai değerlendirme"
}

` + jsonOnlyRule + `

BAĞLAM:
%s`

const chatPreamble = `Sen bir ihale şartnamesi hakkında soruları yanıtlayan uzman bir asistansın. Yanıtlarını yalnızca aşağıdaki belge içeriğine dayandır; belgede olmayan bilgi için bunu açıkça söyle. Düz metin olarak yanıt ver.

BELGE:
%s

SOHBET:
`
